package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/berth-dev/elicit/internal/session"
)

// Line-mode commands understood by FallbackRunner.
const (
	fallbackExport  = "/export"
	fallbackSummary = "/summary"
	fallbackQuit    = "/quit"
)

// FallbackRunner drives a session one line at a time when stdout is not a
// terminal. Every input line is a user message unless it is a command.
type FallbackRunner struct {
	sess *session.Session
	in   io.Reader
	out  io.Writer
}

// NewFallbackRunner creates a new FallbackRunner.
func NewFallbackRunner(sess *session.Session, in io.Reader, out io.Writer) *FallbackRunner {
	return &FallbackRunner{
		sess: sess,
		in:   in,
		out:  out,
	}
}

// Run prints the history so far and then processes input until EOF or
// /quit. It returns the first input read error.
func (f *FallbackRunner) Run(ctx context.Context) error {
	fmt.Fprintln(f.out, "Running in non-interactive mode...")
	fmt.Fprintf(f.out, "Commands: %s, %s, %s\n\n", fallbackSummary, fallbackExport, fallbackQuit)
	for _, m := range f.sess.Messages() {
		f.printMessage(m)
	}

	scanner := bufio.NewScanner(f.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()

		switch strings.TrimSpace(line) {
		case fallbackQuit:
			return nil
		case fallbackSummary:
			f.printSummary(ctx)
			continue
		case fallbackExport:
			path, err := f.sess.Export(ctx)
			if err != nil {
				fmt.Fprintf(f.out, "Export failed: %v\n", err)
				continue
			}
			fmt.Fprintf(f.out, "Exported to %s\n", path)
			continue
		}

		err := f.sess.SendUserMessage(ctx, line)
		switch {
		case errors.Is(err, session.ErrEmptyMessage):
			continue
		case err != nil:
			fmt.Fprintf(f.out, "Error: %v\n", err)
			continue
		}
		if last, ok := lastBotMessage(f.sess.Messages()); ok {
			f.printMessage(last)
		}
	}
	return scanner.Err()
}

func (f *FallbackRunner) printMessage(m session.Message) {
	prefix := "You"
	if m.Sender == session.SenderBot {
		prefix = "Bot"
	}
	fmt.Fprintf(f.out, "%s: %s\n", prefix, m.Text)
}

func (f *FallbackRunner) printSummary(ctx context.Context) {
	sum, err := f.sess.Refresh(ctx)
	if err != nil {
		if sum = f.sess.Summary(); sum == nil {
			fmt.Fprintf(f.out, "Summary unavailable: %v\n", err)
			return
		}
	}
	fmt.Fprintln(f.out, FormatSummaryLine(sum))
}

func lastBotMessage(msgs []session.Message) (session.Message, bool) {
	if len(msgs) == 0 || msgs[len(msgs)-1].Sender != session.SenderBot {
		return session.Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// FormatSummaryLine renders a summary as one line of plain text.
func FormatSummaryLine(sum *session.Summary) string {
	if sum == nil {
		return "No summary yet"
	}
	return fmt.Sprintf("Requirements: %d (functional %d, non-functional %d) | Ambiguities: %d/%d resolved | Contradictions: %d/%d resolved",
		sum.TotalRequirements, sum.FunctionalRequirements, sum.NonFunctionalRequirements,
		sum.AmbiguitiesResolved, sum.TotalAmbiguities,
		sum.ContradictionsResolved, sum.TotalContradictions)
}
