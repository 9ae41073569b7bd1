// chat.go implements the "elicit chat" command for an existing project.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/berth-dev/elicit/internal/tui"
	"github.com/berth-dev/elicit/internal/tui/app"
)

var chatCmd = &cobra.Command{
	Use:   "chat PROJECT_ID",
	Short: "Chat about an existing project",
	Long: `Open a conversation for an existing project. Runs the full-screen
interface on a terminal, or a line-mode chat reading stdin otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	projectID := args[0]
	if tui.IsTTY() {
		return runTUI(app.WithProject(projectID, ""))
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := newClient()
	defer client.Close()

	sess := newSession(client, projectID, "")
	if err := sess.Start(ctx); err != nil {
		return err
	}
	defer func() {
		sess.Stop()
		sess.Wait()
	}()

	return tui.NewFallbackRunner(sess, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
}
