// Package stack provides a self-validating growable stack of fixed-width
// integers, instrumented for memory-corruption detection.
//
// A Guarded stack keeps its elements in a single region laid out as
//
//	[left guard word][element 0]...[element capacity-1][right guard word]
//
// and carries two more guard words in the struct itself. Two rolling
// checksums are recomputed after every mutation: one over the structural
// fields (identity token, capacity, size) and one over the live element
// bytes. Unused slots are filled with a poison byte so stale reads are
// visibly wrong.
//
// # Lifecycle
//
// The zero value is unconstructed. Construct makes it live, Destroy poisons
// and releases the region and returns it to the zero state:
//
//	var s stack.Guarded
//	if err := s.Construct(); err != nil {
//	    // err is a stack.Faults
//	}
//	defer s.Destroy()
//
//	_ = s.Push(5)
//	v, err := s.Pop()
//
// # Faults
//
// Every operation verifies the stack on entry and on exit. Detected problems
// are returned as a Faults set; several simultaneous corruptions are
// reported together. The package never logs and never aborts: escalation is
// a caller decision.
//
// # Diagnostics
//
// Report and Dump render the current state, the detected faults and every
// allocated slot. They only read.
//
// Guarded is not safe for concurrent use.
package stack
