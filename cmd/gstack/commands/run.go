package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/gstack/internal/config"
	dserrors "github.com/systmms/gstack/internal/errors"
	"github.com/systmms/gstack/internal/script"
)

func NewRunCommand(cfg *config.Config) *cobra.Command {
	var (
		label       string
		noConstruct bool
		stopOnFault bool
	)

	cmd := &cobra.Command{
		Use:   "run [steps...]",
		Short: "Run an operation script against a fresh stack",
		Long: `Run a sequence of stack operations and print the outcome of each step.

Steps: construct, push <n>, pop, top, size, dump, verify, destroy and
corrupt <target> where target is struct-left, struct-right, data-left,
data-right, element <slot>, size <n> or capacity <n>.

The stack is constructed automatically unless --no-construct is given, and
destroyed at the end if the script left it live. Any fault prints the
diagnostic report.

Examples:
  gstack run push 1 push 2 pop top
  gstack run "push 1, push 2, corrupt element 0, dump"
  gstack run --no-construct push 1          # use before construction`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return dserrors.UserError{
					Message:    "No steps specified",
					Suggestion: "Provide operations, e.g. 'gstack run push 1 pop'",
				}
			}

			steps, err := script.Parse(args)
			if err != nil {
				return err
			}
			if !noConstruct {
				steps = append([]script.Step{{Kind: script.Construct}}, steps...)
			}

			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			runner, err := sess.runner(label)
			if err != nil {
				return err
			}
			runner.StopOnFault = stopOnFault
			defer release(runner)

			results, runErr := runner.Run(steps)
			out := cmd.OutOrStdout()
			printResults(out, results)
			if err := sess.finish(out); err != nil {
				return err
			}
			if runErr != nil {
				return fmt.Errorf("script failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "stk", "Name shown in diagnostic reports")
	cmd.Flags().BoolVar(&noConstruct, "no-construct", false, "Do not construct the stack before the script")
	cmd.Flags().BoolVar(&stopOnFault, "stop-on-fault", false, "Stop at the first failing step")

	return cmd
}
