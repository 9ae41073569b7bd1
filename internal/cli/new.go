// new.go implements the "elicit new" command that registers a project.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berth-dev/elicit/internal/log"
)

var newDescription string

var newCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a project",
	Long:  `Register a new project with the assistant and print its id.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "Project description")
}

func runNew(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("project name is required")
	}

	client := newClient()
	defer client.Close()

	id, err := client.CreateProject(context.Background(), name, newDescription)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	recordEvent(log.LogEvent{
		Event:     log.EventProjectCreated,
		ProjectID: id,
		Data:      map[string]interface{}{"name": name},
	})
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
