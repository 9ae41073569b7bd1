package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berth-dev/elicit/internal/log"
)

// Assistant is the remote service a session talks to.
type Assistant interface {
	Chatter
	SummaryFetcher
	DocumentFetcher
}

// EventSink records structured session events.
type EventSink interface {
	Append(event log.LogEvent) error
}

// Option configures a Session.
type Option func(*Session)

// WithSenderID sets the sender id sent with every chat turn. When unset a
// random "user_<uuid>" id is generated.
func WithSenderID(id string) Option {
	return func(s *Session) { s.senderID = id }
}

// WithPollInterval sets the summary refresh period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithClock replaces time.Now for message timestamps and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithEvents sets the event sink.
func WithEvents(sink EventSink) Option {
	return func(s *Session) { s.events = sink }
}

// WithSaver sets where exported documents are handed off.
func WithSaver(saver Saver) Option {
	return func(s *Session) { s.saver = saver }
}

// WithOnUpdate registers a callback run after the messages or summary change.
// It is called without any session lock held.
func WithOnUpdate(fn func()) Option {
	return func(s *Session) { s.onUpdate = fn }
}

// Session is the conversation controller for one project. It owns the
// message log and the current summary; nothing else mutates them.
type Session struct {
	projectID string
	senderID  string
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	events    EventSink
	saver     Saver
	onUpdate  func()

	log      *Log
	exchange *Exchange
	poller   *Poller
	exporter *Exporter

	background sync.WaitGroup

	mu      sync.Mutex
	nextID  int64
	summary *Summary
	started bool
	stopped bool
}

// New creates a session for projectID. The log starts with the greeting.
func New(projectID string, client Assistant, opts ...Option) *Session {
	s := &Session{
		projectID: projectID,
		interval:  DefaultPollInterval,
		now:       time.Now,
		logger:    zap.NewNop(),
		log:       NewLog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.senderID == "" {
		s.senderID = "user_" + uuid.NewString()
	}
	s.logger = s.logger.With(zap.String("project_id", projectID))

	s.exchange = NewExchange(client)
	s.poller = NewPoller(client, projectID, s.interval, s.storeSummary, s.summaryFailed)
	s.exporter = NewExporter(client, s.saver, s.now)

	s.mu.Lock()
	s.appendLocked(SenderBot, GreetingText)
	s.mu.Unlock()
	return s
}

// ProjectID returns the project this session is bound to.
func (s *Session) ProjectID() string { return s.projectID }

// SenderID returns the sender id used for chat turns.
func (s *Session) SenderID() string { return s.senderID }

// Start begins periodic summary refreshing. Calling Start on a running
// session is a no-op; a stopped session cannot be restarted.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	first := !s.started
	s.started = true
	s.mu.Unlock()

	if !s.poller.Start(ctx) {
		return nil
	}
	if first {
		s.logger.Info("session started", zap.Duration("poll_interval", s.interval))
		s.record(log.LogEvent{Event: log.EventSessionStarted, SenderID: s.senderID})
	}
	return nil
}

// Stop cancels the summary timer. Exchanges and refreshes still in flight
// are left to resolve; their results are discarded. Stop is idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	already := s.stopped
	s.stopped = true
	s.mu.Unlock()

	s.poller.Stop()
	if already {
		return
	}
	s.logger.Info("session stopped", zap.Int("messages", s.log.Len()))
	s.record(log.LogEvent{Event: log.EventSessionStopped, Messages: s.log.Len()})
}

// Wait blocks until summary refreshes started after exchanges have resolved.
// Once Stop has returned no new refreshes are started, so Stop then Wait
// drains everything.
func (s *Session) Wait() {
	s.background.Wait()
}

// SendUserMessage runs one exchange. The user message is appended before
// the assistant is contacted; the reply, or FallbackText if the exchange
// fails, is appended when it resolves. Assistant failures are logged and
// never returned. Blank text returns ErrEmptyMessage and a submit while
// another is pending returns ErrExchangePending; neither touches the log.
func (s *Session) SendUserMessage(ctx context.Context, text string) error {
	if err := validate(text); err != nil {
		return err
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if err := s.exchange.begin(); err != nil {
		s.mu.Unlock()
		return err
	}
	userMsg := s.appendLocked(SenderUser, text)
	s.mu.Unlock()
	s.notify()

	started := time.Now()
	reply, err := s.exchange.run(ctx, text, s.projectID, s.senderID)
	elapsed := time.Since(started)

	s.mu.Lock()
	if s.stopped {
		s.exchange.finish(err)
		s.mu.Unlock()
		s.logger.Debug("discarding exchange result after stop", zap.Int64("message_id", userMsg.ID))
		return nil
	}
	botText := reply
	if err != nil {
		botText = FallbackText
	}
	botMsg := s.appendLocked(SenderBot, botText)
	s.exchange.finish(err)
	if err == nil {
		// Counted under s.mu so a Stop then Wait always observes it.
		s.background.Add(1)
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.logger.Warn("exchange failed", zap.Int64("message_id", userMsg.ID), zap.Error(err))
		s.record(log.LogEvent{
			Event:      log.EventExchangeFailed,
			SenderID:   s.senderID,
			MessageID:  userMsg.ID,
			Error:      err.Error(),
			DurationMs: elapsed.Milliseconds(),
		})
		return nil
	}

	s.logger.Debug("exchange completed", zap.Int64("message_id", botMsg.ID), zap.Duration("elapsed", elapsed))
	s.record(log.LogEvent{
		Event:      log.EventExchangeCompleted,
		SenderID:   s.senderID,
		MessageID:  botMsg.ID,
		DurationMs: elapsed.Milliseconds(),
	})
	s.refreshAsync(ctx)
	return nil
}

// Messages returns a snapshot of the log.
func (s *Session) Messages() []Message {
	return s.log.All()
}

// Summary returns the latest stored summary, or nil before the first
// successful refresh.
func (s *Session) Summary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil
	}
	sum := *s.summary
	return &sum
}

// Refresh fetches the summary now. Failures keep the previous value.
func (s *Session) Refresh(ctx context.Context) (*Summary, error) {
	return s.poller.Refresh(ctx)
}

// IsPending reports whether an exchange is in flight.
func (s *Session) IsPending() bool {
	return s.exchange.IsPending()
}

// State returns the exchange state.
func (s *Session) State() ExchangeState {
	return s.exchange.State()
}

// LastError returns the error from the most recent exchange, nil if it
// succeeded.
func (s *Session) LastError() error {
	return s.exchange.LastError()
}

// Export fetches the requirements document and saves it through the
// session's Saver, returning the saved location.
func (s *Session) Export(ctx context.Context) (string, error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return "", ErrStopped
	}

	path, err := s.exporter.Export(ctx, s.projectID)
	if err != nil {
		s.logger.Warn("export failed", zap.Error(err))
		s.record(log.LogEvent{Event: log.EventExportFailed, Error: err.Error()})
		return "", err
	}

	s.logger.Info("export saved", zap.String("path", path))
	s.record(log.LogEvent{Event: log.EventExportCompleted, File: path})
	return path, nil
}

// refreshAsync refreshes the summary without blocking the caller. The
// request outlives ctx's cancellation. The caller has already added one
// to s.background.
func (s *Session) refreshAsync(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer s.background.Done()
		_, _ = s.poller.Refresh(ctx)
	}()
}

// storeSummary replaces the summary wholesale. Last call wins.
func (s *Session) storeSummary(sum Summary) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.summary = &sum
	s.mu.Unlock()
	s.notify()
}

func (s *Session) summaryFailed(err error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped && errors.Is(err, context.Canceled) {
		return
	}

	s.logger.Warn("summary refresh failed", zap.Error(err))
	s.record(log.LogEvent{Event: log.EventSummaryFailed, Error: err.Error()})
}

// appendLocked creates the next message and appends it. Caller holds s.mu.
func (s *Session) appendLocked(sender Sender, text string) Message {
	s.nextID++
	msg := Message{
		ID:        s.nextID,
		Text:      text,
		Sender:    sender,
		Timestamp: s.now(),
	}
	if err := s.log.Append(msg); err != nil {
		s.logger.Error("append message", zap.Error(err))
	}
	return msg
}

func (s *Session) notify() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

func (s *Session) record(event log.LogEvent) {
	if s.events == nil {
		return
	}
	event.ProjectID = s.projectID
	if event.Time.IsZero() {
		event.Time = s.now().UTC()
	}
	if err := s.events.Append(event); err != nil {
		s.logger.Warn("write event log", zap.String("event", event.Event), zap.Error(err))
	}
}
