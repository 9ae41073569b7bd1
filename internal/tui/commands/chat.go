package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/berth-dev/elicit/internal/session"
	"github.com/berth-dev/elicit/internal/tui"
)

// SendMessageCmd runs one exchange on the session. The session appends the
// user message before contacting the assistant, so the history updates
// through ListenUpdatesCmd while the exchange is in flight.
func SendMessageCmd(sess *session.Session, content string) tea.Cmd {
	return func() tea.Msg {
		return tui.ExchangeDoneMsg{Err: sess.SendUserMessage(context.Background(), content)}
	}
}

// ExportCmd writes the requirements document and returns ExportDoneMsg.
func ExportCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		path, err := sess.Export(context.Background())
		return tui.ExportDoneMsg{Path: path, Err: err}
	}
}

// ListenUpdatesCmd waits for the next session change. It returns nil once
// done is closed, which ends the listen loop.
func ListenUpdatesCmd(updates, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-updates:
			return tui.SessionUpdatedMsg{}
		case <-done:
			return nil
		}
	}
}

// StartupCmd checks assistant health and fetches the first summary in
// parallel when a chat opens.
func StartupCmd(client HealthChecker, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		var msg tui.StartupMsg
		var g errgroup.Group
		ctx := context.Background()

		g.Go(func() error {
			msg.HealthErr = client.Health(ctx)
			return nil
		})
		g.Go(func() error {
			msg.Summary, msg.SummaryErr = sess.Refresh(ctx)
			return nil
		})
		_ = g.Wait()
		return msg
	}
}
