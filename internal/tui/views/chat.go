package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/elicit/internal/session"
	"github.com/berth-dev/elicit/internal/tui"
)

const (
	sidebarWidth = 34
	minMainWidth = 20
	// header (2), typing line (2), textarea (5), status and footer (3)
	chromeHeight = 12
)

var tips = []string{
	"Describe one feature at a time.",
	"Quantify words like fast or easy.",
	"Answer the bot's questions to resolve ambiguities.",
	"Export when the summary looks complete.",
}

// ChatModel is the view model for the conversation screen.
type ChatModel struct {
	projectID   string
	projectName string
	messages    []session.Message
	summary     *session.Summary

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	pending      bool
	exporting    bool
	status       string
	statusErr    bool
	ctrlCPending bool
	width        int
	height       int
}

// NewChatModel creates a ChatModel showing the given history.
func NewChatModel(projectID, projectName string, messages []session.Message, width, height int) ChatModel {
	mainWidth, vpHeight := chatDimensions(width, height)

	// Initialize textarea
	ta := textarea.New()
	ta.Placeholder = "Describe a requirement... (Enter to send)"
	ta.CharLimit = 5000
	ta.SetWidth(mainWidth)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Enter submits; the newline binding moves to alt+enter and ctrl+j
	keyMap := ta.KeyMap
	keyMap.InsertNewline = tui.DefaultKeyMap.NewLine
	ta.KeyMap = keyMap
	ta.Focus()

	// Initialize spinner
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.PrimaryColor))

	// Typed text belongs to the textarea; the history only pages
	vp := viewport.New(mainWidth, vpHeight)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   tui.DefaultKeyMap.ScrollUp,
		PageDown: tui.DefaultKeyMap.ScrollDown,
	}

	m := ChatModel{
		projectID:   projectID,
		projectName: projectName,
		textarea:    ta,
		viewport:    vp,
		spinner:     sp,
		width:       width,
		height:      height,
	}
	m.SetMessages(messages)
	return m
}

// chatDimensions returns the message column width and viewport height.
func chatDimensions(width, height int) (int, int) {
	// box chrome (8), column gap (2), sidebar border (2)
	mainWidth := width - sidebarWidth - 12
	if mainWidth < minMainWidth {
		mainWidth = minMainWidth
	}
	vpHeight := height - chromeHeight
	if vpHeight < 5 {
		vpHeight = 5
	}
	return mainWidth, vpHeight
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

// SetMessages replaces the rendered history and scrolls to the newest.
func (m *ChatModel) SetMessages(msgs []session.Message) {
	m.messages = msgs
	m.viewport.SetContent(formatMessages(msgs, m.viewport.Width))
	m.viewport.GotoBottom()
}

// SetProjectName replaces the header title.
func (m *ChatModel) SetProjectName(name string) {
	m.projectName = name
}

// SetSummary replaces the sidebar summary. nil shows a placeholder.
func (m *ChatModel) SetSummary(sum *session.Summary) {
	m.summary = sum
}

// SetPending toggles the typing indicator and input lock.
func (m *ChatModel) SetPending(pending bool) tea.Cmd {
	m.pending = pending
	if pending {
		m.textarea.Blur()
		return m.spinner.Tick
	}
	m.textarea.Focus()
	return textarea.Blink
}

// SetExporting toggles the export-in-progress state.
func (m *ChatModel) SetExporting(exporting bool) {
	m.exporting = exporting
	if exporting {
		m.SetStatus("Exporting requirements...", false)
	}
}

// SetStatus sets the one-line notification under the input.
func (m *ChatModel) SetStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// SetCtrlCPending updates the exit confirmation hint.
func (m *ChatModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Pending reports whether the view is waiting on an exchange.
func (m ChatModel) Pending() bool {
	return m.pending
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.NewProject):
			return m, func() tea.Msg { return tui.NewProjectMsg{} }

		case key.Matches(msg, tui.DefaultKeyMap.Export):
			if m.exporting {
				return m, nil
			}
			return m, func() tea.Msg { return tui.ExportRequestMsg{} }

		case key.Matches(msg, tui.DefaultKeyMap.Send):
			if m.pending {
				return m, nil
			}
			content := m.textarea.Value()
			if strings.TrimSpace(content) == "" {
				return m, nil
			}
			m.textarea.Reset()
			cmd = m.SetPending(true)
			return m, tea.Batch(cmd, func() tea.Msg {
				return tui.SendChatMsg{Content: content}
			})
		}

	case spinner.TickMsg:
		if m.pending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainWidth, vpHeight := chatDimensions(msg.Width, msg.Height)
		m.viewport.Width = mainWidth
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(mainWidth)

		// Re-wrap messages at the new width
		m.SetMessages(m.messages)
		return m, nil
	}

	// Input is locked while an exchange is pending
	if !m.pending {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update viewport for scrolling
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the chat view.
func (m ChatModel) View() string {
	var main strings.Builder

	header := tui.TitleStyle.Render(m.projectName) + tui.DimStyle.Render(fmt.Sprintf("  project %s", m.projectID))
	main.WriteString(header)
	main.WriteString("\n\n")

	main.WriteString(m.viewport.View())
	main.WriteString("\n\n")

	if m.pending {
		main.WriteString(fmt.Sprintf("%s Bot is typing...", m.spinner.View()))
		main.WriteString("\n\n")
		main.WriteString(tui.DimStyle.Render(m.textarea.View()))
	} else {
		main.WriteString("\n\n")
		main.WriteString(m.textarea.View())
	}
	main.WriteString("\n")

	if m.status != "" {
		style := tui.SuccessStyle
		if m.statusErr {
			style = tui.ErrorStyle
		}
		main.WriteString(style.Render(m.status))
	}
	main.WriteString("\n")

	footer := "Enter: Send · Alt+Enter: New line · PgUp/PgDn: Scroll · Ctrl+E: Export · Ctrl+N: New · Ctrl+C: Exit"
	if m.ctrlCPending {
		footer = "Press Ctrl+C again to exit"
	}
	main.WriteString(tui.DimStyle.Render(footer))

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		tui.PanelStyle.Width(sidebarWidth).Render(renderSummary(m.summary, sidebarWidth-4)),
		tui.PanelStyle.Width(sidebarWidth).Render(renderTips(sidebarWidth-4)),
	)

	column := lipgloss.NewStyle().Width(m.viewport.Width).Render(main.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, column, "  ", sidebar)
	return tui.BoxStyle.
		Width(m.width - 4).
		Render(body)
}

// formatMessages formats the message history for the viewport, wrapping
// text to width.
func formatMessages(messages []session.Message, width int) string {
	if len(messages) == 0 {
		return tui.DimStyle.Render("No messages yet. Start the conversation!")
	}

	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, msg := range messages {
		prefix := "Bot"
		style := tui.BotStyle
		if msg.Sender == session.SenderUser {
			prefix = "You"
			style = tui.UserStyle
		}

		line := style.Render(prefix+": ") + msg.Text
		if !msg.Timestamp.IsZero() {
			line += tui.DimStyle.Render("  " + msg.Timestamp.Format("15:04"))
		}
		b.WriteString(wrap.Render(line))

		// Add spacing between messages (except after the last one)
		if i < len(messages)-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

// renderSummary renders the requirement counters for the sidebar.
func renderSummary(sum *session.Summary, width int) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Summary"))
	b.WriteString("\n\n")

	if sum == nil {
		b.WriteString(tui.DimStyle.Render("Waiting for analysis..."))
		return b.String()
	}

	fmt.Fprintf(&b, "Requirements: %d\n", sum.TotalRequirements)
	fmt.Fprintf(&b, "  Functional: %d\n", sum.FunctionalRequirements)
	fmt.Fprintf(&b, "  Non-functional: %d\n\n", sum.NonFunctionalRequirements)

	barWidth := width - 8
	if barWidth < 4 {
		barWidth = 4
	}
	fmt.Fprintf(&b, "Ambiguities: %d/%d resolved\n", sum.AmbiguitiesResolved, sum.TotalAmbiguities)
	b.WriteString(progressBar(sum.AmbiguitiesResolved, sum.TotalAmbiguities, barWidth))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Contradictions: %d/%d resolved\n", sum.ContradictionsResolved, sum.TotalContradictions)
	b.WriteString(progressBar(sum.ContradictionsResolved, sum.TotalContradictions, barWidth))

	return b.String()
}

// progressBar renders done/total as a bar of the given width. An empty
// total renders as complete.
func progressBar(done, total, width int) string {
	filled := width
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return tui.ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		tui.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func renderTips(width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Tips"))
	b.WriteString("\n")
	for _, t := range tips {
		b.WriteString("\n")
		b.WriteString(wrap.Render(tui.DimStyle.Render("• " + t)))
	}
	return b.String()
}
