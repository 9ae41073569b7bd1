package session

import (
	"fmt"
	"sync"
)

// Log is an ordered, append-only record of messages.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Append adds msg to the end of the log. The id must be greater than the id
// of the last message so that id order stays chronological.
func (l *Log) Append(msg Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.messages); n > 0 && msg.ID <= l.messages[n-1].ID {
		return fmt.Errorf("%w: got %d after %d", ErrOutOfOrder, msg.ID, l.messages[n-1].ID)
	}
	l.messages = append(l.messages, msg)
	return nil
}

// All returns a copy of every message in insertion order.
func (l *Log) All() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the most recent message.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
