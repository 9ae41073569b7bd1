package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/berth-dev/elicit/internal/assistant"
)

// DefaultPollInterval is the summary refresh period.
const DefaultPollInterval = 5 * time.Second

// SummaryFetcher fetches the aggregate counters for a project.
type SummaryFetcher interface {
	Summary(ctx context.Context, projectID string) (*assistant.Summary, error)
}

// Poller refreshes a project's Summary on a fixed interval and on demand.
// Refreshes may overlap; whichever resolves last is the one stored.
type Poller struct {
	fetch     SummaryFetcher
	projectID string
	interval  time.Duration
	store     func(Summary)
	onError   func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a Poller. store receives every successfully fetched
// summary; onError receives every failure. Either may be nil.
func NewPoller(fetch SummaryFetcher, projectID string, interval time.Duration, store func(Summary), onError func(error)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if store == nil {
		store = func(Summary) {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Poller{
		fetch:     fetch,
		projectID: projectID,
		interval:  interval,
		store:     store,
		onError:   onError,
	}
}

// Refresh fetches the summary once. On failure nothing is stored.
func (p *Poller) Refresh(ctx context.Context) (*Summary, error) {
	sum, err := p.fetch.Summary(ctx, p.projectID)
	if err == nil && sum == nil {
		err = fmt.Errorf("summary: empty response")
	}
	if err == nil {
		if verr := sum.Validate(); verr != nil {
			err = fmt.Errorf("summary: %w", verr)
		}
	}
	if err != nil {
		p.onError(err)
		return nil, err
	}

	p.store(*sum)
	return sum, nil
}

// Start begins periodic refreshing, with one refresh right away. It returns
// false if the poller is already running.
func (p *Poller) Start(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
	return true
}

// Stop cancels the timer and waits for the polling goroutine to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// release clears the running state when the loop exits on its own, for
// example because the ctx passed to Start was cancelled.
func (p *Poller) release(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != done {
		return
	}
	p.cancel()
	p.cancel, p.done = nil, nil
}

// Running reports whether the timer is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer p.release(done)

	_, _ = p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = p.Refresh(ctx)
		}
	}
}
