// Package testutil provides test helper utilities for elicit tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/berth-dev/elicit/internal/assistant"
	"github.com/berth-dev/elicit/internal/log"
)

// ErrFake is the error FakeAssistant returns when told to fail.
var ErrFake = &assistant.TransportError{Op: "fake", Err: errors.New("connection refused")}

// FakeAssistant is an in-memory assistant. Zero value replies "ok" to
// every chat turn and has no summary.
type FakeAssistant struct {
	mu sync.Mutex

	replies    []string
	chatErr    error
	chatGate   chan struct{}
	chatCalls  []assistant.ChatRequest
	summary    *assistant.Summary
	summaryErr error
	sumCalls   int
	document   string
	exportErr  error
	expCalls   int
	createErr  error
	healthErr  error
	projects   []assistant.CreateProjectRequest
}

// NewFakeAssistant creates a FakeAssistant that answers with replies in
// order, then "ok".
func NewFakeAssistant(replies ...string) *FakeAssistant {
	return &FakeAssistant{replies: replies}
}

// FailChat makes chat turns return err (nil restores success).
func (f *FakeAssistant) FailChat(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatErr = err
}

// HoldChat blocks chat turns until the returned release func is called.
func (f *FakeAssistant) HoldChat() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.chatGate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.chatGate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

// SetSummary sets the summary returned by Summary.
func (f *FakeAssistant) SetSummary(sum assistant.Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summary = &sum
	f.summaryErr = nil
}

// FailSummary makes Summary return err.
func (f *FakeAssistant) FailSummary(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryErr = err
}

// SetDocument sets the export document.
func (f *FakeAssistant) SetDocument(doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.document = doc
	f.exportErr = nil
}

// FailExport makes Export return err.
func (f *FakeAssistant) FailExport(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exportErr = err
}

// FailCreate makes CreateProject return err.
func (f *FakeAssistant) FailCreate(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

// FailHealth makes Health return err.
func (f *FakeAssistant) FailHealth(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthErr = err
}

// CreateProject records the request and returns "p<n>" for the nth project.
func (f *FakeAssistant) CreateProject(_ context.Context, name, description string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.projects = append(f.projects, assistant.CreateProjectRequest{ProjectName: name, Description: description})
	return fmt.Sprintf("p%d", len(f.projects)), nil
}

// Health returns the error set by FailHealth.
func (f *FakeAssistant) Health(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

// Project returns the record for a "p<n>" id handed out by CreateProject.
func (f *FakeAssistant) Project(_ context.Context, projectID string) (*assistant.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	if _, err := fmt.Sscanf(projectID, "p%d", &n); err != nil || n < 1 || n > len(f.projects) {
		return nil, &assistant.ServiceError{Op: "project", StatusCode: 404, Message: "Project not found"}
	}
	req := f.projects[n-1]
	return &assistant.Project{ID: projectID, Name: req.ProjectName, Description: req.Description, Status: "active"}, nil
}

// Projects returns every project creation request received.
func (f *FakeAssistant) Projects() []assistant.CreateProjectRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]assistant.CreateProjectRequest(nil), f.projects...)
}

// Chat implements session.Chatter.
func (f *FakeAssistant) Chat(ctx context.Context, req assistant.ChatRequest) (string, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, req)
	gate := f.chatGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", &assistant.TransportError{Op: "chat", Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

// Summary implements session.SummaryFetcher.
func (f *FakeAssistant) Summary(_ context.Context, _ string) (*assistant.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sumCalls++
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	if f.summary == nil {
		return nil, &assistant.ServiceError{Op: "summary", StatusCode: 404, Message: "Project not found"}
	}
	sum := *f.summary
	return &sum, nil
}

// Export implements session.DocumentFetcher.
func (f *FakeAssistant) Export(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expCalls++
	if f.exportErr != nil {
		return "", f.exportErr
	}
	return f.document, nil
}

// ChatCalls returns every chat request received.
func (f *FakeAssistant) ChatCalls() []assistant.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]assistant.ChatRequest, len(f.chatCalls))
	copy(out, f.chatCalls)
	return out
}

// SummaryCalls returns how many times Summary was called.
func (f *FakeAssistant) SummaryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sumCalls
}

// ExportCalls returns how many times Export was called.
func (f *FakeAssistant) ExportCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expCalls
}

// MemorySaver records saved documents instead of writing files.
type MemorySaver struct {
	mu    sync.Mutex
	Files map[string][]byte
	Err   error
}

// NewMemorySaver creates an empty MemorySaver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{Files: make(map[string][]byte)}
}

// Save implements session.Saver.
func (m *MemorySaver) Save(name string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Files[name] = append([]byte(nil), content...)
	return "mem://" + name, nil
}

// Names returns the saved file names.
func (m *MemorySaver) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for n := range m.Files {
		names = append(names, n)
	}
	return names
}

// MemoryEvents collects events appended to it.
type MemoryEvents struct {
	mu     sync.Mutex
	events []log.LogEvent
}

// Append implements session.EventSink.
func (m *MemoryEvents) Append(event log.LogEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns the recorded events in order.
func (m *MemoryEvents) Events() []log.LogEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]log.LogEvent(nil), m.events...)
}

// Kinds returns the recorded event types in order.
func (m *MemoryEvents) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, len(m.events))
	for i, e := range m.events {
		kinds[i] = e.Event
	}
	return kinds
}
