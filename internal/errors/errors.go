package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/gstack/pkg/stack"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// ScriptError points at the failing step of an operation script
type ScriptError struct {
	Step      int
	Operation string
	Message   string
	Err       error
}

func (e ScriptError) Error() string {
	msg := fmt.Sprintf("Step %d (%s) failed", e.Step, e.Operation)
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ScriptError) Unwrap() error {
	return e.Err
}

// StackError enhances a stack fault with context for the user
func StackError(operation string, err error) error {
	if err == nil {
		return nil
	}
	faults, ok := stack.AsFaults(err)
	if !ok {
		return UserError{
			Message: fmt.Sprintf("stack %s failed", operation),
			Err:     err,
		}
	}

	return UserError{
		Message:    fmt.Sprintf("stack %s failed with %d fault(s): %s", operation, faults.Count(), faults.String()),
		Details:    strings.Join(faults.Messages(), "; "),
		Suggestion: getFaultSuggestion(faults),
		Err:        err,
	}
}

// getFaultSuggestion returns a hint for the most telling fault in the set
func getFaultSuggestion(f stack.Faults) string {
	switch {
	case f.Has(stack.NullOrUnconstructed):
		return "Construct the stack before use; it may already have been destroyed"
	case f.Has(stack.AlreadyConstructed):
		return "Destroy the stack before constructing it again"
	case f.Has(stack.OutOfMemory):
		return "Raise 'memoryLimit' in gstack.yaml or switch to the heap allocator"
	case f.Has(stack.EmptyStack):
		return "Push a value before calling pop or top"
	case f.Has(stack.StructGuardLeftDamaged), f.Has(stack.StructGuardRightDamaged):
		return "Something wrote over the stack header; look for overruns in adjacent memory"
	case f.Has(stack.DataGuardLeftDamaged), f.Has(stack.DataGuardRightDamaged):
		return "Something wrote past the element buffer; look for out-of-bounds writes"
	case f.Has(stack.StructuralChecksumDamaged), f.Has(stack.DataChecksumDamaged), f.Has(stack.SizeExceedsCapacity):
		return "The stack was modified outside its API; inspect the diagnostic report"
	}
	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	var userErr UserError
	if errors.As(err, &userErr) {
		return err
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}

	if _, ok := stack.AsFaults(err); ok {
		return StackError("operation", err)
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}
