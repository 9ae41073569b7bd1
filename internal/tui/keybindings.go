package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	// Navigation
	Tab      key.Binding
	ShiftTab key.Binding
	Escape   key.Binding

	// Chat
	Send       key.Binding
	NewLine    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Actions
	Export     key.Binding
	NewProject key.Binding
	Quit       key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Tab: key.NewBinding(
		key.WithKeys(KeyTab),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys(KeyShiftTab),
		key.WithHelp("shift+tab", "previous field"),
	),
	Escape: key.NewBinding(
		key.WithKeys(KeyEsc),
		key.WithHelp("esc", "back"),
	),
	Send: key.NewBinding(
		key.WithKeys(KeyEnter),
		key.WithHelp("enter", "send"),
	),
	NewLine: key.NewBinding(
		key.WithKeys(KeyAltEnter, KeyCtrlJ),
		key.WithHelp("alt+enter", "new line"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys(KeyPgUp),
		key.WithHelp("pgup", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys(KeyPgDown),
		key.WithHelp("pgdown", "scroll down"),
	),
	Export: key.NewBinding(
		key.WithKeys(KeyCtrlE),
		key.WithHelp("ctrl+e", "export"),
	),
	NewProject: key.NewBinding(
		key.WithKeys(KeyCtrlN),
		key.WithHelp("ctrl+n", "new project"),
	),
	Quit: key.NewBinding(
		key.WithKeys(KeyCtrlC),
		key.WithHelp("ctrl+c", "exit"),
	),
}
