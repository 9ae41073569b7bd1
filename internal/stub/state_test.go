package stub

import (
	"strings"
	"testing"
	"time"
)

func TestStateAnalysis(t *testing.T) {
	tests := []struct {
		name      string
		messages  []string
		want      map[string]int
		lastReply string
	}{
		{
			name:      "plain functional",
			messages:  []string{"We need a login page"},
			want:      map[string]int{"req": 1, "func": 1, "amb": 0, "ctr": 0},
			lastReply: "functional requirement",
		},
		{
			name:      "non-functional",
			messages:  []string{"The service must be secure"},
			want:      map[string]int{"req": 1, "nonfunc": 1},
			lastReply: "non-functional requirement",
		},
		{
			name:      "vague then clarified",
			messages:  []string{"Search should be simple", "Two clicks at most from the home page"},
			want:      map[string]int{"req": 1, "amb": 1, "ambres": 1},
			lastReply: "clarifies",
		},
		{
			name:      "contradiction then kept",
			messages:  []string{"Users log in with email", "Actually users log in with phone numbers", "Keep the phone numbers"},
			want:      map[string]int{"req": 2, "ctr": 1, "ctrres": 1},
			lastReply: "clarifies",
		},
		{
			name:      "contradiction marker without history",
			messages:  []string{"Actually we need exports"},
			want:      map[string]int{"req": 1, "ctr": 0},
			lastReply: "functional requirement",
		},
		{
			name:      "whole words only",
			messages:  []string{"Support breakfast menus"},
			want:      map[string]int{"req": 1, "amb": 0},
			lastReply: "functional requirement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState()
			id := st.CreateProject("Cafe", "")

			var reply string
			for _, m := range tt.messages {
				var ok bool
				reply, ok = st.Chat(id, m)
				if !ok {
					t.Fatalf("Chat(%q) reported unknown project", m)
				}
			}
			if !strings.Contains(reply, tt.lastReply) {
				t.Errorf("last reply = %q, want it to contain %q", reply, tt.lastReply)
			}

			sum, _ := st.Summary(id)
			got := map[string]int{
				"req":     sum.TotalRequirements,
				"func":    sum.FunctionalRequirements,
				"nonfunc": sum.NonFunctionalRequirements,
				"amb":     sum.TotalAmbiguities,
				"ambres":  sum.AmbiguitiesResolved,
				"ctr":     sum.TotalContradictions,
				"ctrres":  sum.ContradictionsResolved,
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %d, want %d (summary %+v)", k, got[k], v, sum)
				}
			}
			if err := sum.Validate(); err != nil {
				t.Errorf("stub produced invalid summary: %v", err)
			}
		})
	}
}

func TestStateUnknownProject(t *testing.T) {
	st := NewState()
	if _, ok := st.Chat(5, "hi"); ok {
		t.Error("Chat on unknown project should fail")
	}
	if _, ok := st.Summary(5); ok {
		t.Error("Summary on unknown project should fail")
	}
	if _, ok := st.Document(5); ok {
		t.Error("Document on unknown project should fail")
	}
	if _, ok := st.Lookup(5); ok {
		t.Error("Lookup on unknown project should fail")
	}
}

func TestStateLookupOmitsHistory(t *testing.T) {
	st := NewState()
	id := st.CreateProject("Portal", "d")
	st.Chat(id, "We need a login page")

	p, ok := st.Lookup(id)
	if !ok || p.Name != "Portal" || p.Description != "d" {
		t.Fatalf("Lookup = %+v, %v", p, ok)
	}
	if len(p.Requirements) != 0 || len(p.Turns) != 0 {
		t.Error("Lookup should return header fields only")
	}
}

func TestStateDefaultProjectName(t *testing.T) {
	st := NewState()
	id := st.CreateProject("  ", "")
	doc, _ := st.Document(id)
	if !strings.Contains(doc, "Project Name: Unnamed Project") {
		t.Error("blank name should default to Unnamed Project")
	}
	if !strings.Contains(doc, "Description: No description provided") {
		t.Error("blank description placeholder missing")
	}
}

func TestDocumentSections(t *testing.T) {
	st := NewState()
	st.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	id := st.CreateProject("Portal", "customer portal")
	st.Chat(id, "We need a login page")
	st.Chat(id, "Pages must load fast")

	doc, ok := st.Document(id)
	if !ok {
		t.Fatal("Document failed")
	}
	for _, want := range []string{
		"Project Name: Portal",
		"Document Generated: 2026-10-14 12:00:00",
		"[Exchange 2]",
		"FR-1: We need a login page",
		"NFR-1: Pages must load fast",
		"AMB-1:",
		"Status: detected",
		"No contradictions detected.",
		"Total Conversation Exchanges: 2",
		"END OF DOCUMENT",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	st := NewState()
	id := st.CreateProject("Portal", "")
	st.Chat(id, "We need a login page")

	turns := st.Turns(id)
	turns[0].User = "changed"
	if st.Turns(id)[0].User != "We need a login page" {
		t.Error("Turns exposed internal slice")
	}
	if st.Turns(99) != nil {
		t.Error("unknown project should have no turns")
	}
}
