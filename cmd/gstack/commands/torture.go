package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/gstack/internal/config"
	"github.com/systmms/gstack/internal/script"
	"github.com/systmms/gstack/pkg/stack"
)

// tortureCase damages a stack in one way and expects Verify to name it
type tortureCase struct {
	name   string
	script string
	want   stack.Faults
}

var tortureCases = []tortureCase{
	{
		name:   "overrun from the left into the header",
		script: "push 1 push 2 corrupt struct-left verify",
		want:   stack.StructGuardLeftDamaged,
	},
	{
		name:   "overrun from the right into the header",
		script: "push 1 push 2 corrupt struct-right verify",
		want:   stack.StructGuardRightDamaged,
	},
	{
		name:   "buffer underrun",
		script: "push 1 corrupt data-left verify",
		want:   stack.DataGuardLeftDamaged,
	},
	{
		name:   "buffer overrun",
		script: "push 1 push 2 push 3 push 4 corrupt data-right verify",
		want:   stack.DataGuardRightDamaged,
	},
	{
		name:   "both header guards",
		script: "push 1 corrupt struct-left corrupt struct-right verify",
		want:   stack.StructGuardLeftDamaged | stack.StructGuardRightDamaged,
	},
	{
		name:   "sniper hit on a live element",
		script: "push 1 push 2 push 3 corrupt element 1 verify",
		want:   stack.DataChecksumDamaged,
	},
	{
		name:   "size overwritten",
		script: "push 1 push 2 corrupt size 100 verify",
		want:   stack.SizeExceedsCapacity | stack.StructuralChecksumDamaged | stack.DataChecksumDamaged,
	},
	{
		name:   "capacity overwritten",
		script: "push 1 corrupt capacity 64 verify",
		want:   stack.DataGuardRightDamaged | stack.StructuralChecksumDamaged,
	},
	{
		name:   "repeated construction",
		script: "push 1 construct",
		want:   stack.AlreadyConstructed,
	},
	{
		name:   "pop from empty stack",
		script: "pop",
		want:   stack.EmptyStack,
	},
	{
		name:   "use after destroy",
		script: "push 1 destroy push 2",
		want:   stack.NullOrUnconstructed,
	},
}

func NewTortureCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "torture",
		Short: "Damage stacks on purpose and show what is detected",
		Long: `Run a series of scenarios that corrupt a stack behind its API (guard
words, elements, size, capacity) or misuse it, and check that every fault is
detected. Each detection prints the diagnostic report.

Runs with the configured protection; turning guards or checksums off makes
the matching scenarios go undetected. abortOnFault is ignored here since
every scenario faults on purpose.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			sess.checker.AbortOnFault = false
			out := cmd.OutOrStdout()

			missed := 0
			for _, tc := range tortureCases {
				got, err := runTortureCase(sess, tc)
				if err != nil {
					return err
				}
				verdict := "detected"
				if got != tc.want {
					verdict = "MISSED"
					missed++
				}
				fmt.Fprintf(out, "%-40s want=%s got=%s %s\n", tc.name, tc.want.String(), got.String(), verdict)
			}

			if err := sess.finish(out); err != nil {
				return err
			}
			if missed > 0 {
				fmt.Fprintf(out, "%d of %d scenarios went undetected\n", missed, len(tortureCases))
			}
			return nil
		},
	}
}

func runTortureCase(sess *session, tc tortureCase) (stack.Faults, error) {
	steps, err := script.Parse([]string{"construct " + tc.script})
	if err != nil {
		return 0, err
	}
	runner, err := sess.runner("victim")
	if err != nil {
		return 0, err
	}
	defer release(runner)

	results, _ := runner.Run(steps)
	var got stack.Faults
	for _, r := range results {
		got |= r.Faults
	}
	return got, nil
}
