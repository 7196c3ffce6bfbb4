package stack

import (
	"encoding/binary"
	"fmt"
)

// Element is the stack's element type.
type Element int32

const (
	// ElementSize is the width of one slot in bytes.
	ElementSize = 4
	// GuardSize is the width of one guard word in bytes.
	GuardSize = 8

	// LeftGuard and RightGuard are the sentinel words written before and
	// after the element slots and into the struct itself.
	LeftGuard  uint64 = 0xFFAAFFBBFAFBFCFD
	RightGuard uint64 = 0xAAFFBBAAFFCCABCD

	// PoisonByte fills every unused or released byte.
	PoisonByte byte = 0xF0

	// MinCapacity is the initial capacity and the shrink floor.
	MinCapacity = 4
)

// PoisonElement is the value an element slot holds when it is poisoned.
const PoisonElement = Element(-0x0F0F0F10) // int32(0xF0F0F0F0)

var order = binary.LittleEndian

// buffer is one allocation laid out as
// [left guard][capacity slots][right guard]. Without guards the layout is
// just the slots. All offsets are relative to the start of the allocation.
type buffer struct {
	region   Region
	mem      []byte
	capacity int
	guarded  bool
}

func regionSize(capacity int, guarded bool) int {
	return 2*guardWidth(guarded) + capacity*ElementSize
}

func guardWidth(guarded bool) int {
	if guarded {
		return GuardSize
	}
	return 0
}

// newBuffer allocates a region for capacity slots, poisons every slot and
// writes the data guards.
func newBuffer(a Allocator, capacity int, guarded bool) (*buffer, error) {
	size := regionSize(capacity, guarded)
	r, err := a.Allocate(size)
	if err != nil {
		return nil, err
	}
	mem := r.Bytes()
	if len(mem) != size {
		r.Release()
		return nil, fmt.Errorf("allocator returned %d bytes, want %d", len(mem), size)
	}
	b := &buffer{region: r, mem: mem, capacity: capacity, guarded: guarded}
	b.poisonSlots(0, capacity)
	b.writeGuards()
	return b, nil
}

// resized allocates a buffer of the new capacity holding a copy of the
// first keep slots of b. b itself is left untouched.
func (b *buffer) resized(a Allocator, capacity, keep int) (*buffer, error) {
	nb, err := newBuffer(a, capacity, b.guarded)
	if err != nil {
		return nil, err
	}
	copy(nb.slots(0, keep), b.slots(0, keep))
	return nb, nil
}

func (b *buffer) slotOffset(i int) int { return guardWidth(b.guarded) + i*ElementSize }

func (b *buffer) rightGuardOffset() int { return b.slotOffset(b.capacity) }

// slots returns the raw bytes of slots [from, to).
func (b *buffer) slots(from, to int) []byte {
	return b.mem[b.slotOffset(from):b.slotOffset(to)]
}

func (b *buffer) element(i int) Element {
	return Element(int32(order.Uint32(b.mem[b.slotOffset(i):])))
}

func (b *buffer) setElement(i int, v Element) {
	order.PutUint32(b.mem[b.slotOffset(i):], uint32(int32(v)))
}

func (b *buffer) poisonSlots(from, to int) {
	fill(b.slots(from, to), PoisonByte)
}

// slotPoisoned reports whether every byte of slot i is the poison byte.
func (b *buffer) slotPoisoned(i int) bool {
	for _, c := range b.slots(i, i+1) {
		if c != PoisonByte {
			return false
		}
	}
	return true
}

func (b *buffer) writeGuards() {
	if !b.guarded {
		return
	}
	order.PutUint64(b.mem[0:], LeftGuard)
	order.PutUint64(b.mem[b.rightGuardOffset():], RightGuard)
}

// release poisons the whole allocation, guards included, and hands it back.
func (b *buffer) release() {
	fill(b.mem, PoisonByte)
	b.region.Release()
	b.mem = nil
	b.region = nil
}

func fill(p []byte, c byte) {
	for i := range p {
		p[i] = c
	}
}

// wordAt reads a guard-sized word at off, reporting false when the word
// would fall outside the allocation.
func (b *buffer) wordAt(off int) (uint64, bool) {
	if off < 0 || off+GuardSize > len(b.mem) {
		return 0, false
	}
	return order.Uint64(b.mem[off:]), true
}
