// Package views provides TUI view components for the elicit application.
package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/elicit/internal/tui"
)

// ErrProjectNameRequired is set when the form is submitted without a name.
var ErrProjectNameRequired = errors.New("project name is required")

const projectNamePrompt = "Please enter a project name"

const (
	fieldName = iota
	fieldDescription
)

// ProjectModel is the view model for the project creation form.
type ProjectModel struct {
	name        textinput.Model
	description textinput.Model
	focus       int

	// Err is shown under the form until the next submit.
	Err error

	healthErr    error
	healthKnown  bool
	creating     bool
	ctrlCPending bool
	width        int
	height       int
}

// NewProjectModel creates the form with the name field focused.
func NewProjectModel(width, height int) ProjectModel {
	name := textinput.New()
	name.Placeholder = "e.g. Customer Portal"
	name.CharLimit = 200
	name.Width = width - 10 // Account for padding/borders
	name.Focus()

	desc := textinput.New()
	desc.Placeholder = "optional"
	desc.CharLimit = 2000
	desc.Width = width - 10

	return ProjectModel{
		name:        name,
		description: desc,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command for the form.
func (m ProjectModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetHealth records the assistant health check result for the banner.
func (m *ProjectModel) SetHealth(err error) {
	m.healthErr = err
	m.healthKnown = true
}

// SetCreating toggles the in-progress state while the project is created.
func (m *ProjectModel) SetCreating(creating bool) {
	m.creating = creating
}

// SetCtrlCPending updates the exit confirmation hint.
func (m *ProjectModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Update handles messages for the form.
func (m ProjectModel) Update(msg tea.Msg) (ProjectModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.creating {
			return m, nil
		}
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Tab), key.Matches(msg, tui.DefaultKeyMap.ShiftTab):
			m.toggleFocus()
			return m, textinput.Blink

		case key.Matches(msg, tui.DefaultKeyMap.Send):
			name := strings.TrimSpace(m.name.Value())
			if name == "" {
				m.Err = ErrProjectNameRequired
				m.setFocus(fieldName)
				return m, nil
			}
			m.Err = nil
			desc := strings.TrimSpace(m.description.Value())
			return m, func() tea.Msg {
				return tui.SubmitProjectMsg{Name: name, Description: desc}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.name.Width = msg.Width - 10
		m.description.Width = msg.Width - 10
		return m, nil
	}

	if m.focus == fieldName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m *ProjectModel) toggleFocus() {
	if m.focus == fieldName {
		m.setFocus(fieldDescription)
	} else {
		m.setFocus(fieldName)
	}
}

func (m *ProjectModel) setFocus(field int) {
	m.focus = field
	if field == fieldName {
		m.name.Focus()
		m.description.Blur()
		return
	}
	m.description.Focus()
	m.name.Blur()
}

// View renders the form.
func (m ProjectModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Requirements Elicitation Assistant"))
	b.WriteString("\n\n")

	if m.healthKnown {
		if m.healthErr != nil {
			b.WriteString(tui.WarningStyle.Render("Assistant unreachable: " + m.healthErr.Error()))
		} else {
			b.WriteString(tui.SuccessStyle.Render("Assistant is online"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString("Project name\n")
	b.WriteString(m.name.View())
	b.WriteString("\n\n")
	b.WriteString("Description\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")

	switch {
	case m.creating:
		b.WriteString(tui.DimStyle.Render("Creating project..."))
		b.WriteString("\n\n")
	case errors.Is(m.Err, ErrProjectNameRequired):
		b.WriteString(tui.ErrorStyle.Render(projectNamePrompt))
		b.WriteString("\n\n")
	case m.Err != nil:
		b.WriteString(tui.ErrorStyle.Render(m.Err.Error()))
		b.WriteString("\n\n")
	}

	footer := "Enter: Start chat   Tab: Next field   Ctrl+C: Exit"
	if m.ctrlCPending {
		footer = "Press Ctrl+C again to exit"
	}
	b.WriteString(tui.DimStyle.Render(footer))

	// Wrap in box style
	boxed := tui.BoxStyle.
		Width(m.width - 4).
		Render(b.String())

	// Center vertically if there's space
	contentHeight := lipgloss.Height(boxed)
	if m.height > contentHeight {
		padding := (m.height - contentHeight) / 3 // Slight offset toward top
		if padding > 0 {
			boxed = strings.Repeat("\n", padding) + boxed
		}
	}

	return boxed
}
