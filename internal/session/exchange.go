package session

import (
	"context"
	"strings"
	"sync"

	"github.com/berth-dev/elicit/internal/assistant"
)

// ExchangeState is the lifecycle state of the exchange controller.
type ExchangeState int

const (
	Idle ExchangeState = iota
	Pending
	Errored
)

func (s ExchangeState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Chatter sends one user turn to the assistant.
type Chatter interface {
	Chat(ctx context.Context, req assistant.ChatRequest) (string, error)
}

// Exchange serializes user turns: at most one request is in flight at a
// time, and a second submit while pending is rejected rather than queued.
type Exchange struct {
	chat Chatter

	mu      sync.Mutex
	state   ExchangeState
	lastErr error
}

// NewExchange creates an Exchange that sends turns through chat.
func NewExchange(chat Chatter) *Exchange {
	return &Exchange{chat: chat}
}

// Submit validates text, sends it and returns the assistant's reply.
// Blank text returns ErrEmptyMessage without contacting the assistant.
func (e *Exchange) Submit(ctx context.Context, text, projectID, senderID string) (string, error) {
	if err := validate(text); err != nil {
		return "", err
	}
	if err := e.begin(); err != nil {
		return "", err
	}
	reply, err := e.run(ctx, text, projectID, senderID)
	e.finish(err)
	return reply, err
}

// IsPending reports whether an exchange is in flight.
func (e *Exchange) IsPending() bool {
	return e.State() == Pending
}

// State returns the current lifecycle state.
func (e *Exchange) State() ExchangeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastError returns the error of the most recent failed exchange, or nil
// if the last exchange succeeded.
func (e *Exchange) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// begin claims the in-flight slot.
func (e *Exchange) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Pending {
		return ErrExchangePending
	}
	e.state = Pending
	return nil
}

// run performs the request for a claimed slot. The slot stays claimed until
// finish so the caller can record the outcome before the next turn starts.
func (e *Exchange) run(ctx context.Context, text, projectID, senderID string) (string, error) {
	return e.chat.Chat(ctx, assistant.ChatRequest{
		Message:   text,
		ProjectID: projectID,
		SenderID:  senderID,
	})
}

// finish releases the slot, recording err as the outcome.
func (e *Exchange) finish(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = Errored
		e.lastErr = err
		return
	}
	e.state = Idle
	e.lastErr = nil
}

func validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	return nil
}
