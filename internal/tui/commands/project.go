// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/elicit/internal/assistant"
	"github.com/berth-dev/elicit/internal/tui"
)

// ProjectCreator registers projects with the assistant.
type ProjectCreator interface {
	CreateProject(ctx context.Context, name, description string) (string, error)
}

// ProjectLoader fetches a stored project.
type ProjectLoader interface {
	Project(ctx context.Context, projectID string) (*assistant.Project, error)
}

// HealthChecker reports whether the assistant is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// CreateProjectCmd registers a project and returns ProjectCreatedMsg, or
// ProjectErrorMsg on failure.
func CreateProjectCmd(client ProjectCreator, name, description string) tea.Cmd {
	return func() tea.Msg {
		id, err := client.CreateProject(context.Background(), name, description)
		if err != nil {
			return tui.ProjectErrorMsg{Err: err}
		}
		return tui.ProjectCreatedMsg{ProjectID: id, Name: name}
	}
}

// LoadProjectCmd fetches a project's name and returns ProjectLoadedMsg.
func LoadProjectCmd(client ProjectLoader, projectID string) tea.Cmd {
	return func() tea.Msg {
		p, err := client.Project(context.Background(), projectID)
		if err != nil {
			return tui.ProjectLoadedMsg{ProjectID: projectID, Err: err}
		}
		return tui.ProjectLoadedMsg{ProjectID: projectID, Name: p.Name}
	}
}

// HealthCmd checks the assistant and returns HealthMsg.
func HealthCmd(client HealthChecker) tea.Cmd {
	return func() tea.Msg {
		return tui.HealthMsg{Err: client.Health(context.Background())}
	}
}
