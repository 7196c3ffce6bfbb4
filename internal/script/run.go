package script

import (
	"encoding/binary"

	"github.com/systmms/gstack/internal/checker"
	dserrors "github.com/systmms/gstack/internal/errors"
	"github.com/systmms/gstack/pkg/stack"
)

// damage is the byte pattern written by corrupt steps.
const damage byte = 0xDD

// Result is the outcome of one step.
type Result struct {
	Step     Step
	Value    stack.Element
	HasValue bool
	Size     int
	Faults   stack.Faults
	Err      error
}

// Runner executes steps against one stack through a checker.
type Runner struct {
	Stack   *stack.Guarded
	Checker *checker.Checker
	Label   string
	// Options are used by construct steps.
	Options []stack.Option
	// StopOnFault ends the script at the first failing step.
	StopOnFault bool
}

// Run executes steps in order. It returns the results of the executed
// steps and a ScriptError for the first failing one.
func (r *Runner) Run(steps []Step) ([]Result, error) {
	var (
		results  []Result
		firstErr error
	)
	for i, step := range steps {
		res := r.exec(step)
		results = append(results, res)
		if res.Err != nil && firstErr == nil {
			firstErr = dserrors.ScriptError{Step: i + 1, Operation: step.String(), Err: res.Err}
			if r.StopOnFault {
				break
			}
		}
	}
	return results, firstErr
}

func (r *Runner) exec(step Step) Result {
	s := r.Stack
	res := Result{Step: step}
	op := step.Kind.String()

	var err error
	switch step.Kind {
	case Construct:
		err = s.Construct(r.Options...)
	case Push:
		err = s.Push(stack.Element(step.Value))
	case Pop:
		res.Value, err = s.Pop()
		res.HasValue = err == nil
	case Top:
		res.Value, err = s.Top()
		res.HasValue = err == nil
	case Size:
		res.Size = s.Size()
		if res.Size == stack.InvalidSize {
			err = s.Verify().Err()
		}
	case Verify:
		err = s.Verify().Err()
	case Destroy:
		err = s.Destroy()
	case Dump:
		res.Faults = r.Checker.Dump(s, r.Label)
		res.Size = s.Size()
		return res
	case Corrupt:
		corrupt(s, step)
		res.Size = s.Size()
		return res
	}

	res.Err = r.Checker.Check(s, r.Label, op, err)
	res.Faults, _ = stack.AsFaults(res.Err)
	if step.Kind != Size {
		res.Size = s.Size()
	}
	return res
}

func corrupt(s *stack.Guarded, step Step) {
	tm := s.Tamper()
	var word [stack.GuardSize]byte
	for i := range word {
		word[i] = damage
	}
	switch step.Target {
	case TargetStructLeft:
		tm.StructLeftGuard(binary.LittleEndian.Uint64(word[:]))
	case TargetStructRight:
		tm.StructRightGuard(binary.LittleEndian.Uint64(word[:]))
	case TargetDataLeft:
		tm.Overwrite(tm.DataLeftGuardOffset(), word[:])
	case TargetDataRight:
		if off := tm.DataRightGuardOffset(); off >= 0 {
			tm.Overwrite(off, word[:])
		}
	case TargetElement:
		if off := tm.SlotOffset(step.Arg); off >= 0 {
			tm.Overwrite(off, word[:stack.ElementSize])
		}
	case TargetSize:
		tm.Size(step.Arg)
	case TargetCapacity:
		tm.Capacity(step.Arg)
	}
}
