package tui

import (
	"github.com/berth-dev/elicit/internal/config"
	"github.com/berth-dev/elicit/internal/session"
)

// ViewState represents the current state of the TUI.
type ViewState int

const (
	StateProject ViewState = iota // project form
	StateCreating
	StateChat
)

// Model is the main TUI model that holds all application state.
type Model struct {
	// State management
	State ViewState
	Err   error

	// Configuration
	Cfg     *config.Config
	WorkDir string

	// Last assistant health check result
	HealthErr error

	// Active conversation
	Session     *session.Session
	ProjectName string
	Updates     chan struct{}
	Done        chan struct{} // closed when the session is replaced

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool // True when waiting for second Ctrl+C press
}

// NewModel creates a new Model with the given configuration.
func NewModel(cfg *config.Config, workDir string) *Model {
	return &Model{
		State:   StateProject,
		Cfg:     cfg,
		WorkDir: workDir,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

// Notifier returns a session update callback that signals ch without
// blocking. Bursts of updates collapse into one.
func Notifier(ch chan<- struct{}) func() {
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
