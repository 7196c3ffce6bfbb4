// Package script parses and runs short stack operation scripts such as
//
//	push 5 push 4 pop top size dump
//
// Steps may be separated by whitespace, commas or semicolons. The corrupt
// step writes into the stack behind its API to demonstrate detection:
//
//	corrupt struct-left | struct-right | data-left | data-right
//	corrupt element <slot> | size <n> | capacity <n>
package script

import (
	"fmt"
	"strconv"
	"strings"

	dserrors "github.com/systmms/gstack/internal/errors"
)

// Kind is the operation performed by a step.
type Kind int

const (
	Construct Kind = iota
	Push
	Pop
	Top
	Size
	Dump
	Verify
	Destroy
	Corrupt
)

var kindNames = map[string]Kind{
	"construct": Construct,
	"push":      Push,
	"pop":       Pop,
	"top":       Top,
	"size":      Size,
	"dump":      Dump,
	"verify":    Verify,
	"destroy":   Destroy,
	"corrupt":   Corrupt,
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Corruption targets.
const (
	TargetStructLeft  = "struct-left"
	TargetStructRight = "struct-right"
	TargetDataLeft    = "data-left"
	TargetDataRight   = "data-right"
	TargetElement     = "element"
	TargetSize        = "size"
	TargetCapacity    = "capacity"
)

var targetTakesArg = map[string]bool{
	TargetStructLeft:  false,
	TargetStructRight: false,
	TargetDataLeft:    false,
	TargetDataRight:   false,
	TargetElement:     true,
	TargetSize:        true,
	TargetCapacity:    true,
}

// Step is one parsed operation.
type Step struct {
	Kind   Kind
	Value  int32
	Target string
	Arg    int
}

func (s Step) String() string {
	switch s.Kind {
	case Push:
		return fmt.Sprintf("push %d", s.Value)
	case Corrupt:
		if targetTakesArg[s.Target] {
			return fmt.Sprintf("corrupt %s %d", s.Target, s.Arg)
		}
		return "corrupt " + s.Target
	default:
		return s.Kind.String()
	}
}

// Parse turns script arguments into steps.
func Parse(args []string) ([]Step, error) {
	tokens := tokenize(args)
	var steps []Step

	for i := 0; i < len(tokens); i++ {
		word := strings.ToLower(tokens[i])
		kind, ok := kindNames[word]
		if !ok {
			return nil, dserrors.UserError{
				Message:    fmt.Sprintf("unknown operation %q", tokens[i]),
				Suggestion: "Use construct, push <n>, pop, top, size, dump, verify, destroy or corrupt <target>",
			}
		}

		step := Step{Kind: kind}
		switch kind {
		case Push:
			v, err := intArg(tokens, &i, "push", 32)
			if err != nil {
				return nil, err
			}
			step.Value = int32(v)
		case Corrupt:
			if i+1 >= len(tokens) {
				return nil, missingArg("corrupt", "a target", "corrupt data-right")
			}
			i++
			step.Target = strings.ToLower(tokens[i])
			takesArg, known := targetTakesArg[step.Target]
			if !known {
				return nil, dserrors.UserError{
					Message:    fmt.Sprintf("unknown corruption target %q", tokens[i]),
					Suggestion: "Use struct-left, struct-right, data-left, data-right, element <slot>, size <n> or capacity <n>",
				}
			}
			if takesArg {
				v, err := intArg(tokens, &i, "corrupt "+step.Target, 0)
				if err != nil {
					return nil, err
				}
				step.Arg = int(v)
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func tokenize(args []string) []string {
	var tokens []string
	for _, a := range args {
		tokens = append(tokens, strings.FieldsFunc(a, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\n' || r == ',' || r == ';'
		})...)
	}
	return tokens
}

func intArg(tokens []string, i *int, op string, bitSize int) (int64, error) {
	if *i+1 >= len(tokens) {
		return 0, missingArg(op, "an integer", op+" 1")
	}
	*i++
	v, err := strconv.ParseInt(tokens[*i], 0, bitSize)
	if err != nil {
		return 0, dserrors.UserError{
			Message:    fmt.Sprintf("%s: invalid integer %q", op, tokens[*i]),
			Details:    err.Error(),
			Suggestion: "Use a decimal or 0x-prefixed value",
		}
	}
	return v, nil
}

func missingArg(op, what, example string) error {
	return dserrors.UserError{
		Message:    fmt.Sprintf("%s needs %s", op, what),
		Suggestion: fmt.Sprintf("Write e.g. '%s'", example),
	}
}
