package stack

import (
	"github.com/google/uuid"
)

// InvalidSize is returned by Size when the stack cannot be trusted.
const InvalidSize = -1

// Stack is the capability shared by the protected and unprotected
// variants.
type Stack interface {
	Push(v Element) error
	Pop() (Element, error)
	Top() (Element, error)
	Size() int
	Destroy() error
	Verify() Faults
}

var _ Stack = (*Guarded)(nil)

// Protection selects which integrity checks a stack carries.
type Protection struct {
	// Guards enables the struct and data guard words.
	Guards bool
	// Checksums enables the structural and data checksums.
	Checksums bool
}

// FullProtection enables every check.
var FullProtection = Protection{Guards: true, Checksums: true}

type settings struct {
	protect   Protection
	alloc     Allocator
	formatter Formatter
}

// Option configures a stack at construction.
type Option func(*settings)

// WithProtection selects the integrity checks.
func WithProtection(p Protection) Option {
	return func(o *settings) { o.protect = p }
}

// Unprotected disables guards and checksums.
func Unprotected() Option {
	return WithProtection(Protection{})
}

// WithAllocator sets the allocator backing the buffer.
func WithAllocator(a Allocator) Option {
	return func(o *settings) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithFormatter attaches the element formatter used by Report.
func WithFormatter(f Formatter) Option {
	return func(o *settings) { o.formatter = f }
}

// State is the lifecycle state of a stack.
type State int

const (
	StateUnconstructed State = iota
	StateLive
	StateDestroyed
)

func (st State) String() string {
	switch st {
	case StateLive:
		return "live"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unconstructed"
	}
}

// Guarded is an integrity-checked growable stack. The zero value is
// unconstructed; call Construct before use and Destroy when done.
type Guarded struct {
	leftGuard uint64

	buf       *buffer
	capacity  int
	size      int
	id        uuid.UUID
	alloc     Allocator
	protect   Protection
	formatter Formatter
	destroyed bool

	rightGuard uint64

	structSum uint64
	dataSum   uint64
}

// New constructs a stack in one step.
func New(opts ...Option) (*Guarded, error) {
	s := &Guarded{}
	if err := s.Construct(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Guarded) virgin() bool {
	return s.buf == nil && s.size == 0 && s.capacity == 0
}

// Construct allocates MinCapacity poisoned slots between two data guards
// and initialises the checksums. It fails with AlreadyConstructed unless
// the stack is in the zero state, and with OutOfMemory when the allocator
// refuses; in both cases the stack is left as it was.
func (s *Guarded) Construct(opts ...Option) error {
	if s == nil {
		return NullOrUnconstructed
	}
	if !s.virgin() {
		return AlreadyConstructed
	}

	o := settings{protect: FullProtection, alloc: HeapAllocator{}}
	for _, opt := range opts {
		opt(&o)
	}

	buf, err := newBuffer(o.alloc, MinCapacity, o.protect.Guards)
	if err != nil {
		return OutOfMemory
	}

	s.buf = buf
	s.capacity = MinCapacity
	s.size = 0
	s.id = uuid.New()
	s.alloc = o.alloc
	s.protect = o.protect
	s.formatter = o.formatter
	s.destroyed = false
	if o.protect.Guards {
		s.leftGuard, s.rightGuard = LeftGuard, RightGuard
	} else {
		s.leftGuard, s.rightGuard = 0, 0
	}
	s.rehash()
	return s.Verify().Err()
}

// Push appends v, doubling the capacity when the stack is full.
func (s *Guarded) Push(v Element) error {
	if f := s.Verify(); f != 0 {
		return f
	}
	// Growth follows the real allocation; a damaged capacity on an
	// unprotected stack must not steer writes past the region.
	if s.size >= s.buf.capacity {
		if err := s.reallocate(2*s.buf.capacity, s.size); err != nil {
			return err
		}
	}
	s.buf.setElement(s.size, v)
	s.size++
	s.rehash()
	return s.Verify().Err()
}

// Pop removes and returns the top element. When the remaining size drops
// to exactly a quarter of a capacity above MinCapacity, the capacity is
// halved. The replacement region is obtained before anything changes, so
// an OutOfMemory pop leaves the stack intact.
func (s *Guarded) Pop() (Element, error) {
	if f := s.Verify(); f != 0 {
		return 0, f
	}
	if s.size == 0 {
		return 0, EmptyStack
	}

	next := s.size - 1
	var shrunk *buffer
	if held := s.buf.capacity; next == held/4 && held > MinCapacity {
		nb, err := s.buf.resized(s.alloc, held/2, next)
		if err != nil {
			return 0, OutOfMemory
		}
		shrunk = nb
	}

	v := s.buf.element(next)
	s.buf.poisonSlots(next, next+1)
	s.size = next
	if shrunk != nil {
		s.buf.release()
		s.buf = shrunk
		s.capacity = shrunk.capacity
	}
	s.rehash()
	return v, s.Verify().Err()
}

// Top returns the top element without removing it.
func (s *Guarded) Top() (Element, error) {
	if f := s.Verify(); f != 0 {
		return 0, f
	}
	if s.size == 0 {
		return 0, EmptyStack
	}
	v := s.buf.element(s.size - 1)
	return v, s.Verify().Err()
}

// Size returns the number of live elements, or InvalidSize when Verify
// reports any fault.
func (s *Guarded) Size() int {
	if s.Verify() != 0 {
		return InvalidSize
	}
	return s.size
}

// Capacity returns the number of allocated slots as recorded, without
// verification.
func (s *Guarded) Capacity() int {
	if s == nil {
		return 0
	}
	return s.capacity
}

// ID returns the identity token assigned at construction.
func (s *Guarded) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// State reports the lifecycle state.
func (s *Guarded) State() State {
	switch {
	case s == nil:
		return StateUnconstructed
	case s.buf != nil:
		return StateLive
	case s.destroyed:
		return StateDestroyed
	default:
		return StateUnconstructed
	}
}

// Protection returns the checks this stack was constructed with.
func (s *Guarded) Protection() Protection {
	if s == nil {
		return Protection{}
	}
	return s.protect
}

// Destroy poisons the whole allocation, guards included, releases it and
// returns the stack to the zero state. A corrupted stack is still
// released; the faults found on entry are returned.
func (s *Guarded) Destroy() error {
	f := s.Verify()
	if f.Has(NullOrUnconstructed) {
		return f
	}
	s.buf.release()
	s.buf = nil
	s.size = 0
	s.capacity = 0
	s.structSum = 0
	s.dataSum = 0
	s.destroyed = true
	return f.Err()
}

// reallocate swaps in a region of the given capacity holding the first
// keep slots. On failure the current region stays installed.
func (s *Guarded) reallocate(capacity, keep int) error {
	nb, err := s.buf.resized(s.alloc, capacity, keep)
	if err != nil {
		return OutOfMemory
	}
	s.buf.release()
	s.buf = nb
	s.capacity = capacity
	return nil
}
