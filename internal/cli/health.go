// health.go implements the "elicit health" command.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the assistant is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()

		if err := client.Health(context.Background()); err != nil {
			return fmt.Errorf("assistant at %s is not healthy: %w", client.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Assistant at %s is running\n", client.BaseURL())
		return nil
	},
}
