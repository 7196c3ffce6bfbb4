package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/gstack/internal/config"
	dserrors "github.com/systmms/gstack/internal/errors"
)

func NewConfigCommand(cfg *config.Config) *cobra.Command {
	var (
		write bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration gstack would use, after defaults are applied.

With --write, write the default configuration to the --config path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				return writeDefaultConfig(cfg.Path, force)
			}

			if err := cfg.Load(); err != nil {
				return err
			}
			data, err := cfg.Active().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the default configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file with --write")

	return cmd
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return dserrors.UserError{
			Message:    fmt.Sprintf("%s already exists", path),
			Suggestion: "Use --force to overwrite it",
		}
	}
	data, err := config.Defaults().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return dserrors.UserError{
			Message:    "Failed to write configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}
	return nil
}
