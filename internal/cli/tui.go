package cli

import (
	"github.com/berth-dev/elicit/internal/session"
	"github.com/berth-dev/elicit/internal/tui"
	"github.com/berth-dev/elicit/internal/tui/app"
)

// runTUI runs the full-screen app. opts may open a project directly.
func runTUI(opts ...app.Option) error {
	client := newClient()
	defer client.Close()

	factory := func(projectID string, onUpdate func()) *session.Session {
		return newSession(client, projectID, "", session.WithOnUpdate(onUpdate))
	}

	model := tui.NewModel(cfg, workDir)
	tuiApp := app.New(model, client, factory, opts...)
	_, err := tui.Run(tuiApp)
	tuiApp.Shutdown()
	return err
}
