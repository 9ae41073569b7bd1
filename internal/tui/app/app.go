// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/elicit/internal/session"
	"github.com/berth-dev/elicit/internal/tui"
	"github.com/berth-dev/elicit/internal/tui/commands"
	"github.com/berth-dev/elicit/internal/tui/views"
)

// Backend is the part of the assistant the app talks to directly. Chat
// traffic goes through the session.
type Backend interface {
	commands.ProjectCreator
	commands.ProjectLoader
	commands.HealthChecker
}

// SessionFactory builds the session for a project. onUpdate must be passed
// to the session so the views refresh when it changes.
type SessionFactory func(projectID string, onUpdate func()) *session.Session

// Option configures an App.
type Option func(*App)

// WithProject opens the chat for an existing project instead of the form.
func WithProject(projectID, name string) Option {
	return func(a *App) {
		a.initialID = projectID
		a.initialName = name
	}
}

// App is the main TUI application that wires all views together.
type App struct {
	model      *tui.Model
	backend    Backend
	newSession SessionFactory

	initialID   string
	initialName string

	// View models
	projectView views.ProjectModel
	chatView    views.ChatModel
}

// New creates a new App.
func New(model *tui.Model, backend Backend, newSession SessionFactory, opts ...Option) *App {
	a := &App{
		model:       model,
		backend:     backend,
		newSession:  newSession,
		projectView: views.NewProjectModel(model.Width, model.Height),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init returns the initial command for the TUI.
func (a *App) Init() tea.Cmd {
	if a.initialID != "" {
		if a.initialName != "" {
			return a.openChat(a.initialID, a.initialName)
		}
		// Placeholder title until the stored name arrives
		return tea.Batch(
			a.openChat(a.initialID, "Project "+a.initialID),
			commands.LoadProjectCmd(a.backend, a.initialID),
		)
	}
	return tea.Batch(a.projectView.Init(), commands.HealthCmd(a.backend))
}

// Shutdown stops the active session and waits for its background work.
// Call it after the program exits.
func (a *App) Shutdown() {
	if sess := a.closeSession(); sess != nil {
		sess.Wait()
	}
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		var cmd tea.Cmd
		switch a.model.State {
		case tui.StateProject, tui.StateCreating:
			a.projectView, cmd = a.projectView.Update(msg)
		case tui.StateChat:
			a.chatView, cmd = a.chatView.Update(msg)
		}
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == tui.KeyCtrlC {
			if a.model.CtrlCPending {
				// Second press within timeout - exit
				return a, tea.Quit
			}
			// First press - set pending and start timeout
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.HealthMsg:
		a.model.HealthErr = msg.Err
		a.projectView.SetHealth(msg.Err)
		return a, nil
	}

	// Route messages based on current state
	switch a.model.State {
	case tui.StateProject, tui.StateCreating:
		return a.updateProject(msg)
	case tui.StateChat:
		return a.updateChat(msg)
	}
	return a, nil
}

// View renders the current application state.
func (a *App) View() string {
	a.projectView.SetCtrlCPending(a.model.CtrlCPending)
	a.chatView.SetCtrlCPending(a.model.CtrlCPending)

	switch a.model.State {
	case tui.StateProject, tui.StateCreating:
		return a.centerContent(a.projectView.View())
	case tui.StateChat:
		return a.chatView.View()
	default:
		return "Unknown state"
	}
}

// centerContent centers the given content both horizontally and vertically.
func (a *App) centerContent(content string) string {
	return lipgloss.Place(
		a.model.Width,
		a.model.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// ============================================================================
// State Update Handlers
// ============================================================================

func (a *App) updateProject(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.projectView, cmd = a.projectView.Update(msg)

	switch msg := msg.(type) {
	case tui.SubmitProjectMsg:
		a.model.State = tui.StateCreating
		a.model.Err = nil
		a.projectView.SetCreating(true)
		return a, commands.CreateProjectCmd(a.backend, msg.Name, msg.Description)

	case tui.ProjectCreatedMsg:
		a.projectView.SetCreating(false)
		return a, a.openChat(msg.ProjectID, msg.Name)

	case tui.ProjectErrorMsg:
		a.model.State = tui.StateProject
		a.model.Err = msg.Err
		a.projectView.SetCreating(false)
		a.projectView.Err = fmt.Errorf("could not create project: %w", msg.Err)
		return a, nil
	}

	return a, cmd
}

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	sess := a.model.Session

	switch msg := msg.(type) {
	case tui.SendChatMsg:
		a.chatView.SetStatus("", false)
		return a, tea.Batch(cmd, commands.SendMessageCmd(sess, msg.Content))

	case tui.ExchangeDoneMsg:
		cmd = a.chatView.SetPending(false)
		a.chatView.SetMessages(sess.Messages())
		if msg.Err != nil {
			a.chatView.SetStatus(exchangeNotice(msg.Err), true)
		}
		return a, cmd

	case tui.SessionUpdatedMsg:
		a.chatView.SetMessages(sess.Messages())
		a.chatView.SetSummary(sess.Summary())
		return a, commands.ListenUpdatesCmd(a.model.Updates, a.model.Done)

	case tui.StartupMsg:
		a.chatView.SetSummary(sess.Summary())
		if msg.HealthErr != nil {
			a.model.HealthErr = msg.HealthErr
			a.chatView.SetStatus("Assistant unreachable: "+msg.HealthErr.Error(), true)
		}
		return a, nil

	case tui.ProjectLoadedMsg:
		// The placeholder stays if the lookup failed or the chat moved on
		if msg.Err == nil && msg.Name != "" && sess != nil && sess.ProjectID() == msg.ProjectID {
			a.model.ProjectName = msg.Name
			a.chatView.SetProjectName(msg.Name)
		}
		return a, nil

	case tui.ExportRequestMsg:
		a.chatView.SetExporting(true)
		return a, commands.ExportCmd(sess)

	case tui.ExportDoneMsg:
		a.chatView.SetExporting(false)
		if msg.Err != nil {
			a.chatView.SetStatus("Export failed: "+msg.Err.Error(), true)
		} else {
			a.chatView.SetStatus("Requirements exported to "+msg.Path, false)
		}
		return a, nil

	case tui.NewProjectMsg:
		a.closeSession()
		a.model.State = tui.StateProject
		a.projectView = views.NewProjectModel(a.model.Width, a.model.Height)
		return a, tea.Batch(a.projectView.Init(), commands.HealthCmd(a.backend))
	}

	return a, cmd
}

// openChat starts a session for the project and switches to the chat view.
func (a *App) openChat(projectID, name string) tea.Cmd {
	a.closeSession()

	updates := make(chan struct{}, 1)
	done := make(chan struct{})
	sess := a.newSession(projectID, tui.Notifier(updates))
	if err := sess.Start(context.Background()); err != nil {
		a.model.Err = err
	}

	a.model.Session = sess
	a.model.ProjectName = name
	a.model.Updates = updates
	a.model.Done = done
	a.model.State = tui.StateChat
	a.chatView = views.NewChatModel(projectID, name, sess.Messages(), a.model.Width, a.model.Height)

	return tea.Batch(
		a.chatView.Init(),
		commands.ListenUpdatesCmd(updates, done),
		commands.StartupCmd(a.backend, sess),
	)
}

// closeSession stops the active session, if any, and returns it.
func (a *App) closeSession() *session.Session {
	sess := a.model.Session
	if sess == nil {
		return nil
	}
	sess.Stop()
	close(a.model.Done)
	a.model.Session = nil
	a.model.Updates = nil
	a.model.Done = nil
	return sess
}

// exchangeNotice turns a rejected submit into a status line.
func exchangeNotice(err error) string {
	switch {
	case errors.Is(err, session.ErrExchangePending):
		return "Wait for the bot to reply before sending another message"
	case errors.Is(err, session.ErrEmptyMessage):
		return "Message is empty"
	default:
		return err.Error()
	}
}
