package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/berth-dev/elicit/internal/assistant"
	"github.com/berth-dev/elicit/internal/download"
	"github.com/berth-dev/elicit/internal/log"
	"github.com/berth-dev/elicit/internal/session"
)

func newClient() *assistant.Client {
	return assistant.NewClient(cfg.Server.BaseURL, cfg.Timeout())
}

// newEvents opens the JSONL event log, or returns nil when disabled.
func newEvents() session.EventSink {
	if !cfg.Log.Events {
		return nil
	}
	events, err := log.NewLogger(workDir)
	if err != nil {
		logger.Warn("event log disabled", zap.Error(err))
		return nil
	}
	return events
}

// recordEvent appends one event outside a session. Failures are logged.
func recordEvent(event log.LogEvent) {
	events := newEvents()
	if events == nil {
		return
	}
	if err := events.Append(event); err != nil {
		logger.Warn("write event log", zap.String("event", event.Event), zap.Error(err))
	}
}

// newSession builds a session wired to the configured saver, logger and
// event log.
func newSession(client session.Assistant, projectID, exportDir string, extra ...session.Option) *session.Session {
	if exportDir == "" {
		exportDir = cfg.Export.Dir
	}
	opts := []session.Option{
		session.WithSenderID(cfg.Chat.SenderID),
		session.WithPollInterval(cfg.PollInterval()),
		session.WithLogger(logger),
		session.WithSaver(download.NewDirSaver(exportDir)),
	}
	if events := newEvents(); events != nil {
		opts = append(opts, session.WithEvents(events))
	}
	return session.New(projectID, client, append(opts, extra...)...)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
