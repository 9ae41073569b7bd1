// send.go implements the "elicit send" command for a single exchange.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berth-dev/elicit/internal/session"
)

var sendCmd = &cobra.Command{
	Use:   "send PROJECT_ID MESSAGE",
	Short: "Send one message and print the reply",
	Long: `Run one exchange for a project and print the assistant's reply.
If the assistant cannot be reached the fallback reply is printed and the
command exits non-zero.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	projectID := args[0]
	text := strings.Join(args[1:], " ")

	client := newClient()
	defer client.Close()

	sess := newSession(client, projectID, "")
	defer func() {
		sess.Stop()
		sess.Wait()
	}()

	if err := sess.SendUserMessage(context.Background(), text); err != nil {
		return err
	}

	msgs := sess.Messages()
	last := msgs[len(msgs)-1]
	if last.Sender == session.SenderBot {
		fmt.Fprintln(cmd.OutOrStdout(), last.Text)
	}

	if err := sess.LastError(); err != nil {
		return fmt.Errorf("exchange failed: %w", err)
	}
	return nil
}
