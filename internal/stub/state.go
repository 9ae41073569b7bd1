// Package stub provides a local stand-in for the requirements assistant.
// It keeps projects in memory and fakes analysis with keyword rules so the
// client can be exercised without the real NLP backend.
package stub

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/berth-dev/elicit/internal/assistant"
)

// Requirement kinds.
const (
	KindFunctional    = "functional"
	KindNonFunctional = "non-functional"
)

// defaultReply is returned when analysis produces nothing to say.
const defaultReply = "I didn't understand that. Could you rephrase?"

var (
	vagueTerms = []string{
		"fast", "easy", "user-friendly", "simple", "intuitive", "flexible",
		"some", "several", "many", "etc", "quickly", "soon", "modern",
	}
	nonFunctionalTerms = []string{
		"performance", "secure", "security", "scalable", "scale", "availability",
		"uptime", "latency", "reliable", "response time", "encrypt", "fast",
	}
	contradictionMarkers = []string{"instead of", "actually", "no longer", "not anymore"}
)

// Requirement is one captured requirement.
type Requirement struct {
	Text      string
	Kind      string
	Timestamp time.Time
}

// Issue is a detected ambiguity or contradiction.
type Issue struct {
	Text     string
	Resolved bool
}

// Turn is one stored chat exchange.
type Turn struct {
	User      string
	Bot       string
	Timestamp time.Time
}

// Project is the in-memory record for one project.
type Project struct {
	ID             int
	Name           string
	Description    string
	CreatedAt      time.Time
	ModifiedAt     time.Time
	Requirements   []Requirement
	Ambiguities    []Issue
	Contradictions []Issue
	Turns          []Turn
}

// State holds all projects served by the stub.
type State struct {
	mu       sync.RWMutex
	nextID   int
	projects map[int]*Project
	now      func() time.Time
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		nextID:   1,
		projects: make(map[int]*Project),
		now:      time.Now,
	}
}

// CreateProject stores a new project and returns its id.
func (s *State) CreateProject(name, description string) int {
	if strings.TrimSpace(name) == "" {
		name = "Unnamed Project"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	now := s.now()
	s.projects[id] = &Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	return id
}

// Chat analyzes a user message against the project and returns the reply.
// ok is false if the project does not exist.
func (s *State) Chat(id int, message string) (reply string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.projects[id]
	if !found {
		return "", false
	}

	now := s.now()
	reply = p.analyze(message, now)
	p.Turns = append(p.Turns, Turn{User: message, Bot: reply, Timestamp: now})
	p.ModifiedAt = now
	return reply, true
}

// Summary returns the aggregate counters for a project.
func (s *State) Summary(id int) (assistant.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, found := s.projects[id]
	if !found {
		return assistant.Summary{}, false
	}

	sum := assistant.Summary{
		TotalRequirements:   len(p.Requirements),
		TotalAmbiguities:    len(p.Ambiguities),
		TotalContradictions: len(p.Contradictions),
	}
	for _, r := range p.Requirements {
		if r.Kind == KindNonFunctional {
			sum.NonFunctionalRequirements++
		} else {
			sum.FunctionalRequirements++
		}
	}
	for _, a := range p.Ambiguities {
		if a.Resolved {
			sum.AmbiguitiesResolved++
		}
	}
	for _, c := range p.Contradictions {
		if c.Resolved {
			sum.ContradictionsResolved++
		}
	}
	return sum, true
}

// Lookup returns the header fields of a project. The returned value carries
// no requirements, issues or turns.
func (s *State) Lookup(id int) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, found := s.projects[id]
	if !found {
		return Project{}, false
	}
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		ModifiedAt:  p.ModifiedAt,
	}, true
}

// Turns returns a copy of the stored exchanges for a project.
func (s *State) Turns(id int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, found := s.projects[id]
	if !found {
		return nil
	}
	return append([]Turn(nil), p.Turns...)
}

// Document renders the requirements document for a project.
func (s *State) Document(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, found := s.projects[id]
	if !found {
		return "", false
	}
	return renderDocument(p, s.now()), true
}

// analyze applies the keyword rules and mutates the project. Caller holds
// the state lock.
func (p *Project) analyze(message string, now time.Time) string {
	text := strings.TrimSpace(message)
	lower := strings.ToLower(text)
	if text == "" {
		return defaultReply
	}

	if marker := findTerm(lower, contradictionMarkers); marker != "" && len(p.Requirements) > 0 {
		prev := p.Requirements[len(p.Requirements)-1]
		p.Contradictions = append(p.Contradictions, Issue{
			Text: fmt.Sprintf("%q conflicts with %q", text, prev.Text),
		})
		p.addRequirement(text, now)
		return fmt.Sprintf("That seems to conflict with an earlier requirement (%q). Which one should we keep?", prev.Text)
	}

	if term := findTerm(lower, vagueTerms); term != "" {
		p.Ambiguities = append(p.Ambiguities, Issue{
			Text: fmt.Sprintf("%q is vague in: %s", term, text),
		})
		p.addRequirement(text, now)
		return fmt.Sprintf("Got it. %q is open to interpretation. Can you quantify or clarify what you mean?", term)
	}

	if p.resolveOpen(lower) {
		return "Thanks, that clarifies it. What else should the system do?"
	}

	kind := p.addRequirement(text, now)
	return fmt.Sprintf("Got it. I've captured that as a %s requirement. What else should the system do?", kind)
}

// resolveOpen marks the oldest open contradiction (when the message keeps
// one side) or ambiguity as resolved.
func (p *Project) resolveOpen(lower string) bool {
	if strings.Contains(lower, "keep") {
		for i := range p.Contradictions {
			if !p.Contradictions[i].Resolved {
				p.Contradictions[i].Resolved = true
				return true
			}
		}
	}
	for i := range p.Ambiguities {
		if !p.Ambiguities[i].Resolved {
			p.Ambiguities[i].Resolved = true
			return true
		}
	}
	return false
}

func (p *Project) addRequirement(text string, now time.Time) string {
	kind := KindFunctional
	if findTerm(strings.ToLower(text), nonFunctionalTerms) != "" {
		kind = KindNonFunctional
	}
	p.Requirements = append(p.Requirements, Requirement{Text: text, Kind: kind, Timestamp: now})
	return kind
}

// findTerm returns the first term contained in lower as a whole word.
func findTerm(lower string, terms []string) string {
	words := " " + strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return ' '
	}, lower) + " "
	for _, t := range terms {
		if strings.Contains(words, " "+t+" ") {
			return t
		}
	}
	return ""
}
