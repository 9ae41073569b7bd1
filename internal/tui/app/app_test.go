package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/elicit/internal/assistant"
	"github.com/berth-dev/elicit/internal/config"
	"github.com/berth-dev/elicit/internal/session"
	"github.com/berth-dev/elicit/internal/testutil"
	"github.com/berth-dev/elicit/internal/tui"
	"github.com/berth-dev/elicit/internal/tui/commands"
)

func newTestApp(t *testing.T, fake *testutil.FakeAssistant, opts ...Option) *App {
	t.Helper()
	saver := testutil.NewMemorySaver()
	model := tui.NewModel(config.DefaultConfig(), t.TempDir())
	model.Width, model.Height = 200, 50

	factory := func(id string, onUpdate func()) *session.Session {
		return session.New(id, fake,
			session.WithPollInterval(time.Hour),
			session.WithSaver(saver),
			session.WithOnUpdate(onUpdate),
		)
	}
	a := New(model, fake, factory, opts...)
	t.Cleanup(a.Shutdown)
	return a
}

func TestProjectToChatFlow(t *testing.T) {
	fake := testutil.NewFakeAssistant("Got it. Any login method?")
	fake.SetDocument("SRS")
	a := newTestApp(t, fake)

	_, cmd := a.Update(tui.SubmitProjectMsg{Name: "Portal", Description: "customer portal"})
	if a.model.State != tui.StateCreating {
		t.Fatalf("state = %v, want creating", a.model.State)
	}
	created := cmd()
	if _, ok := created.(tui.ProjectCreatedMsg); !ok {
		t.Fatalf("create cmd returned %T", created)
	}

	a.Update(created)
	if a.model.State != tui.StateChat || a.model.Session == nil {
		t.Fatal("expected an open chat session")
	}
	if a.model.Session.ProjectID() != "p1" {
		t.Errorf("session project = %q", a.model.Session.ProjectID())
	}
	if got := fake.Projects(); len(got) != 1 || got[0].Description != "customer portal" {
		t.Errorf("projects = %+v", got)
	}
	if !strings.Contains(a.View(), "Portal") {
		t.Error("chat header missing project name")
	}

	msg := commandsSend(a, "We need a login page")
	a.Update(msg)
	if !strings.Contains(a.View(), "Got it. Any login method?") {
		t.Error("reply not rendered after exchange")
	}

	_, cmd = a.Update(tui.ExportRequestMsg{})
	done := cmd()
	a.Update(done)
	if !strings.Contains(a.View(), "Requirements exported to mem://requirements_p1_") {
		t.Errorf("export status missing:\n%s", a.View())
	}
}

// commandsSend runs the exchange the way SendMessageCmd does.
func commandsSend(a *App, text string) tea.Msg {
	return tui.ExchangeDoneMsg{Err: a.model.Session.SendUserMessage(context.Background(), text)}
}

func TestProjectCreationFailure(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	fake.FailCreate(&assistant.ServiceError{Op: "create project", StatusCode: 500, Message: "db down"})
	a := newTestApp(t, fake)

	_, cmd := a.Update(tui.SubmitProjectMsg{Name: "Portal"})
	a.Update(cmd())

	if a.model.State != tui.StateProject {
		t.Fatalf("state = %v, want project form", a.model.State)
	}
	if !strings.Contains(a.View(), "could not create project") {
		t.Error("failure not shown on the form")
	}
}

func TestNewProjectStopsSession(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	a := newTestApp(t, fake, WithProject("42", "Existing"))
	a.Init()

	sess := a.model.Session
	if sess == nil || sess.ProjectID() != "42" {
		t.Fatal("WithProject should open the chat directly")
	}

	a.Update(tui.NewProjectMsg{})
	if a.model.State != tui.StateProject || a.model.Session != nil {
		t.Fatal("expected the project form after ctrl+n")
	}
	if err := sess.SendUserMessage(context.Background(), "late"); !errors.Is(err, session.ErrStopped) {
		t.Errorf("old session still accepts messages: %v", err)
	}
}

func TestOpenByIDLoadsProjectName(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	id, err := fake.CreateProject(context.Background(), "Portal", "")
	if err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, fake, WithProject(id, ""))
	a.Init()

	if !strings.Contains(a.View(), "Project "+id) {
		t.Fatal("placeholder title missing before the lookup resolves")
	}

	// A lookup for some other project is ignored
	a.Update(tui.ProjectLoadedMsg{ProjectID: "p9", Name: "Other"})
	if strings.Contains(a.View(), "Other") {
		t.Error("stale project name applied")
	}

	a.Update(commands.LoadProjectCmd(fake, id)())
	if a.model.ProjectName != "Portal" || !strings.Contains(a.View(), "Portal") {
		t.Errorf("ProjectName = %q, want the stored name", a.model.ProjectName)
	}
}

func TestOpenByIDKeepsPlaceholderOnLookupFailure(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	a := newTestApp(t, fake, WithProject("42", ""))
	a.Init()

	a.Update(commands.LoadProjectCmd(fake, "42")())
	if a.model.ProjectName != "Project 42" {
		t.Errorf("ProjectName = %q, want placeholder", a.model.ProjectName)
	}
}

func TestExchangeRejectionShowsNotice(t *testing.T) {
	a := newTestApp(t, testutil.NewFakeAssistant(), WithProject("p1", "Portal"))
	a.Init()

	a.Update(tui.ExchangeDoneMsg{Err: session.ErrExchangePending})
	if !strings.Contains(a.View(), "Wait for the bot to reply") {
		t.Error("pending rejection notice missing")
	}
}

func TestHealthBanner(t *testing.T) {
	a := newTestApp(t, testutil.NewFakeAssistant())
	a.Update(tui.HealthMsg{Err: errors.New("connection refused")})
	if !strings.Contains(a.View(), "Assistant unreachable") {
		t.Error("health warning missing")
	}
}

func TestCtrlCRequiresDoublePress(t *testing.T) {
	a := newTestApp(t, testutil.NewFakeAssistant())
	ctrlC := tea.KeyMsg{Type: tea.KeyCtrlC}

	_, cmd := a.Update(ctrlC)
	if !a.model.CtrlCPending || cmd == nil {
		t.Fatal("first ctrl+c should arm the exit")
	}
	if !strings.Contains(a.View(), "Press Ctrl+C again to exit") {
		t.Error("exit hint missing")
	}

	_, cmd = a.Update(ctrlC)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("second ctrl+c should quit")
	}

	a.Update(tui.CtrlCResetMsg{})
	if a.model.CtrlCPending {
		t.Error("reset should clear the pending exit")
	}
}
