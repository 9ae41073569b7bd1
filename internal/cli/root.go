// Package cli defines Cobra command definitions for the elicit CLI.
// This file contains the root command, global flags, and shared setup.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berth-dev/elicit/internal/config"
	"github.com/berth-dev/elicit/internal/log"
	"github.com/berth-dev/elicit/internal/tui"
)

var (
	verbose   bool
	serverURL string
	version   = "dev" // set via ldflags at build time

	// Populated by PersistentPreRunE for every command.
	cfg     *config.Config
	workDir string
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "elicit",
	Short: "Conversational requirements elicitation client",
	Long: `Elicit talks to a requirements assistant: describe what a system should
do in plain language, watch the assistant track requirements, ambiguities
and contradictions, and export the resulting specification document.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}
		return runTUI()
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Verbose returns true if --verbose flag is set.
func Verbose() bool {
	return verbose
}

func init() {
	// Assigned here; setup refers back to rootCmd
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug-level diagnostics")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Assistant base URL (overrides server.base_url)")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(stubCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration and builds the diagnostics logger.
func setup(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	workDir = dir

	// Missing config falls back to defaults; a malformed one is an error
	cfg, err = config.LoadOrDefault(workDir)
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The TUI owns the terminal, so its diagnostics go to a file
	logPath := ""
	if ownsTerminal(cmd) {
		logPath = filepath.Join(config.Dir(workDir), "elicit.log")
	}
	logger, err = log.NewDiagnostics(cfg.Log.Level, verbose, logPath)
	if err != nil {
		return err
	}
	logger.Debug("config loaded",
		zap.String("server", cfg.Server.BaseURL),
		zap.String("command", cmd.Name()))
	return nil
}

func ownsTerminal(cmd *cobra.Command) bool {
	return (cmd == rootCmd || cmd == chatCmd) && tui.IsTTY()
}
