package stack

import (
	"errors"
	"math/bits"
	"strings"
)

// Faults is a set of detected fault kinds. The zero value is the healthy set.
//
// Faults implements error so operations can return it directly; a nil
// error always stands for the empty set.
type Faults uint16

const (
	NullOrUnconstructed Faults = 1 << iota
	AlreadyConstructed
	StructGuardLeftDamaged
	StructGuardRightDamaged
	DataGuardLeftDamaged
	DataGuardRightDamaged
	StructuralChecksumDamaged
	DataChecksumDamaged
	OutOfMemory
	EmptyStack
	SizeExceedsCapacity

	faultCount = iota
)

var faultNames = [faultCount]string{
	"NullOrUnconstructed",
	"AlreadyConstructed",
	"StructGuardLeftDamaged",
	"StructGuardRightDamaged",
	"DataGuardLeftDamaged",
	"DataGuardRightDamaged",
	"StructuralChecksumDamaged",
	"DataChecksumDamaged",
	"OutOfMemory",
	"EmptyStack",
	"SizeExceedsCapacity",
}

var faultMessages = [faultCount]string{
	"null or unconstructed stack",
	"repeated construction of a live stack",
	"left guard of stack damaged",
	"right guard of stack damaged",
	"left guard of data damaged",
	"right guard of data damaged",
	"structural checksum or structure damaged",
	"data checksum or data damaged",
	"no memory",
	"trying to pop from empty stack",
	"size exceeds capacity",
}

// AllFaults lists every fault kind in declaration order.
func AllFaults() []Faults {
	out := make([]Faults, 0, faultCount)
	for i := 0; i < faultCount; i++ {
		out = append(out, Faults(1)<<i)
	}
	return out
}

// Has reports whether every fault in other is present in f.
func (f Faults) Has(other Faults) bool {
	return other != 0 && f&other == other
}

// Healthy reports whether the set is empty.
func (f Faults) Healthy() bool { return f == 0 }

// Count returns the number of distinct faults in the set.
func (f Faults) Count() int { return bits.OnesCount16(uint16(f)) }

// List returns the single-fault members of f in declaration order.
func (f Faults) List() []Faults {
	var out []Faults
	for _, k := range AllFaults() {
		if f&k != 0 {
			out = append(out, k)
		}
	}
	return out
}

// Names returns the identifier of each member.
func (f Faults) Names() []string {
	var out []string
	for i := 0; i < faultCount; i++ {
		if f&(Faults(1)<<i) != 0 {
			out = append(out, faultNames[i])
		}
	}
	return out
}

// Messages returns the human-readable description of each member.
func (f Faults) Messages() []string {
	var out []string
	for i := 0; i < faultCount; i++ {
		if f&(Faults(1)<<i) != 0 {
			out = append(out, faultMessages[i])
		}
	}
	return out
}

// Message returns the description of a single fault kind, or "" when f is
// empty or holds more than one fault.
func (f Faults) Message() string {
	if f.Count() != 1 {
		return ""
	}
	return faultMessages[bits.TrailingZeros16(uint16(f))]
}

func (f Faults) String() string {
	if f == 0 {
		return "OK"
	}
	return strings.Join(f.Names(), "|")
}

func (f Faults) Error() string {
	if f == 0 {
		return "stack: ok"
	}
	return "stack: " + strings.Join(f.Messages(), "; ")
}

// Is lets errors.Is match a returned set against any subset of it.
func (f Faults) Is(target error) bool {
	t, ok := target.(Faults)
	if !ok {
		return false
	}
	return f.Has(t)
}

// Err converts the set into an error, nil when healthy.
func (f Faults) Err() error {
	if f == 0 {
		return nil
	}
	return f
}

// AsFaults extracts the fault set carried by err. A nil error yields the
// empty set; an unrelated error yields false.
func AsFaults(err error) (Faults, bool) {
	if err == nil {
		return 0, true
	}
	var f Faults
	if errors.As(err, &f) {
		return f, true
	}
	return 0, false
}
