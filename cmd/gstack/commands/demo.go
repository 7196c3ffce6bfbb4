package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/gstack/internal/config"
	"github.com/systmms/gstack/internal/script"
)

const demoScript = "construct push 5 push 4 push 3 push 2 push 1 pop pop pop pop pop destroy"

func NewDemoCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Push 5..1 and pop them back",
		Long: `Construct a stack, push 5, 4, 3, 2, 1, pop five times and destroy it.
The popped values come back in reverse push order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := script.Parse([]string{demoScript})
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			runner, err := sess.runner("stk")
			if err != nil {
				return err
			}
			defer release(runner)

			results, err := runner.Run(steps)
			if err != nil {
				return err
			}

			var popped []string
			for _, r := range results {
				if r.HasValue {
					popped = append(popped, fmt.Sprint(r.Value))
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "popped: %s\n", strings.Join(popped, " "))
			return sess.finish(out)
		},
	}
}
