package stack

import "fmt"

// Region is an exclusively owned block of raw memory handed out by an
// Allocator. Bytes must return the same backing slice until Release.
type Region interface {
	Bytes() []byte
	Release()
}

// Allocator supplies regions for the stack buffer. Allocate must either
// return a region of exactly size bytes or an error; a failed allocation
// is reported to callers as OutOfMemory.
type Allocator interface {
	Allocate(size int) (Region, error)
}

// HeapAllocator allocates from the Go heap.
type HeapAllocator struct{}

type heapRegion struct {
	buf []byte
}

func (r *heapRegion) Bytes() []byte { return r.buf }
func (r *heapRegion) Release()      { r.buf = nil }

// Allocate returns a zeroed heap region.
func (HeapAllocator) Allocate(size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heap allocator: invalid size %d", size)
	}
	return &heapRegion{buf: make([]byte, size)}, nil
}

// LimitAllocator wraps another allocator and refuses any allocation that
// would push the bytes currently held past Limit. It models a bounded
// memory pool and is how the OutOfMemory paths are exercised.
type LimitAllocator struct {
	Limit int
	Next  Allocator

	inUse int
}

// NewLimitAllocator returns a LimitAllocator over the heap.
func NewLimitAllocator(limit int) *LimitAllocator {
	return &LimitAllocator{Limit: limit, Next: HeapAllocator{}}
}

// InUse reports the bytes held by live regions.
func (a *LimitAllocator) InUse() int { return a.inUse }

// Allocate fails once the limit would be exceeded.
func (a *LimitAllocator) Allocate(size int) (Region, error) {
	if a.inUse+size > a.Limit {
		return nil, fmt.Errorf("limit allocator: %d bytes requested, %d of %d in use", size, a.inUse, a.Limit)
	}
	next := a.Next
	if next == nil {
		next = HeapAllocator{}
	}
	r, err := next.Allocate(size)
	if err != nil {
		return nil, err
	}
	a.inUse += size
	return &limitRegion{Region: r, owner: a, size: size}, nil
}

type limitRegion struct {
	Region
	owner    *LimitAllocator
	size     int
	released bool
}

func (r *limitRegion) Release() {
	if r.released {
		return
	}
	r.released = true
	r.owner.inUse -= r.size
	r.Region.Release()
}
