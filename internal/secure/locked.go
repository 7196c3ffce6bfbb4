package secure

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/systmms/gstack/pkg/stack"
)

// LockedAllocator allocates stack regions from memguard locked buffers.
// A zero MaxBytes means no budget.
type LockedAllocator struct {
	MaxBytes int

	mu    sync.Mutex
	inUse int
	live  int
}

var _ stack.Allocator = (*LockedAllocator)(nil)

// NewLockedAllocator creates an allocator with the given byte budget.
func NewLockedAllocator(maxBytes int) *LockedAllocator {
	return &LockedAllocator{MaxBytes: maxBytes}
}

// Allocate returns a locked, guard-paged region of exactly size bytes.
func (a *LockedAllocator) Allocate(size int) (stack.Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("locked allocator: invalid size %d", size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.MaxBytes > 0 && a.inUse+size > a.MaxBytes {
		return nil, fmt.Errorf("locked allocator: budget exhausted (%d requested, %d of %d in use)", size, a.inUse, a.MaxBytes)
	}

	buf := memguard.NewBuffer(size)
	if !buf.IsAlive() || len(buf.Bytes()) != size {
		buf.Destroy()
		return nil, fmt.Errorf("locked allocator: memguard returned an unusable buffer for %d bytes", size)
	}

	a.inUse += size
	a.live++
	return &lockedRegion{buf: buf, owner: a, size: size}, nil
}

// InUse reports the bytes held by live regions.
func (a *LockedAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Live reports the number of regions not yet released.
func (a *LockedAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

func (a *LockedAllocator) give(size int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inUse -= size
	a.live--
}

type lockedRegion struct {
	buf   *memguard.LockedBuffer
	owner *LockedAllocator
	size  int
	once  sync.Once
}

func (r *lockedRegion) Bytes() []byte { return r.buf.Bytes() }

// Release wipes and frees the locked buffer. Repeated calls are no-ops.
func (r *lockedRegion) Release() {
	r.once.Do(func() {
		r.buf.Destroy()
		r.owner.give(r.size)
	})
}

// Purge wipes every memguard buffer held by the process.
func Purge() {
	memguard.Purge()
}

// CatchInterrupt purges memguard buffers when the process is interrupted.
func CatchInterrupt() {
	memguard.CatchInterrupt()
}
