// config.go implements the "elicit config" command group.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/berth-dev/elicit/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage .elicit/config.yaml",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	_, err := config.ReadConfig(workDir)
	switch {
	case err == nil && !configForce:
		return fmt.Errorf("config already exists; use --force to overwrite")
	case err != nil && !errors.Is(err, config.ErrNotFound) && !configForce:
		return err
	}

	defaults := config.DefaultConfig()
	if serverURL != "" {
		defaults.Server.BaseURL = serverURL
	}
	if err := config.WriteConfig(workDir, defaults); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Join(config.Dir(workDir), "config.yaml"))
	return nil
}
