package tui

import "github.com/berth-dev/elicit/internal/session"

// ============================================================================
// Project Messages
// ============================================================================

// SubmitProjectMsg is sent when the user submits the project form.
type SubmitProjectMsg struct {
	Name        string
	Description string
}

// ProjectCreatedMsg signals that the assistant registered a new project.
type ProjectCreatedMsg struct {
	ProjectID string
	Name      string
}

// ProjectErrorMsg signals that project creation failed.
type ProjectErrorMsg struct {
	Err error
}

// ProjectLoadedMsg carries the stored name of a project opened by id.
type ProjectLoadedMsg struct {
	ProjectID string
	Name      string
	Err       error
}

// NewProjectMsg asks to leave the chat and start another project.
type NewProjectMsg struct{}

// ============================================================================
// Session Messages
// ============================================================================

// SendChatMsg is sent when the user submits a chat message.
type SendChatMsg struct {
	Content string
}

// ExchangeDoneMsg signals that an exchange resolved. The session has
// already appended the reply or the fallback text; Err is only set for
// rejected submits.
type ExchangeDoneMsg struct {
	Err error
}

// SessionUpdatedMsg signals that the session's messages or summary changed.
type SessionUpdatedMsg struct{}

// StartupMsg carries the results of the checks run when a chat opens.
type StartupMsg struct {
	HealthErr  error
	Summary    *session.Summary
	SummaryErr error
}

// ============================================================================
// Export Messages
// ============================================================================

// ExportRequestMsg is sent when the user asks for the requirements document.
type ExportRequestMsg struct{}

// ExportDoneMsg reports the outcome of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ============================================================================
// Control Messages
// ============================================================================

// HealthMsg carries the result of an assistant health check.
type HealthMsg struct {
	Err error
}

// CtrlCResetMsg resets the Ctrl+C confirmation state after timeout.
type CtrlCResetMsg struct{}
