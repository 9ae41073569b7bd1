// Package session implements the conversation session controller: the
// message log, the one-at-a-time exchange with the assistant, the summary
// poller and the export handoff, composed around a single project.
package session

import (
	"errors"
	"time"

	"github.com/berth-dev/elicit/internal/assistant"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// GreetingText is the bot message every session starts with.
const GreetingText = "Hello! I'm your Requirements Gathering Assistant. I'll help you capture and organize your project requirements. Let's start by understanding your project."

// FallbackText stands in for the assistant's reply when an exchange fails.
const FallbackText = "Sorry, I encountered an error. Please try again."

// Message is one entry in the conversation. Messages are immutable once
// appended to a Log.
type Message struct {
	ID        int64
	Text      string
	Sender    Sender
	Timestamp time.Time
}

// Summary is the aggregate elicitation state of a project.
type Summary = assistant.Summary

// Errors returned to callers of the session.
var (
	// ErrEmptyMessage rejects input that is blank after trimming.
	ErrEmptyMessage = errors.New("session: message is empty")
	// ErrExchangePending rejects a submit while another exchange is in flight.
	ErrExchangePending = errors.New("session: an exchange is already in flight")
	// ErrOutOfOrder rejects a message whose id does not follow the log.
	ErrOutOfOrder = errors.New("session: message id is not increasing")
	// ErrStopped rejects work on a session that has been stopped.
	ErrStopped = errors.New("session: stopped")
	// ErrNoSaver is returned by Export when no host saver is configured.
	ErrNoSaver = errors.New("session: no export saver configured")
)
