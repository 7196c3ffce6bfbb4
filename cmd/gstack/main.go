package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/gstack/cmd/gstack/commands"
	"github.com/systmms/gstack/internal/config"
	"github.com/systmms/gstack/internal/logging"
	"github.com/systmms/gstack/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	secure.CatchInterrupt()
	err := run()
	secure.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "gstack",
		Short: "Guarded stack - an integrity-checked stack for corruption diagnostics",
		Long: `gstack drives a self-validating stack whose buffer is bracketed by guard
words and covered by rolling checksums, and prints diagnostic reports when
corruption is detected.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Explicit = cmd.Flags().Changed("config")
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "gstack.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewRunCommand(cfg),
		commands.NewDemoCommand(cfg),
		commands.NewTortureCommand(cfg),
		commands.NewConfigCommand(cfg),
	)

	return rootCmd.Execute()
}
