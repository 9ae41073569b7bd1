// Package assistant is the HTTP client for the remote requirements assistant.
package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Summary holds the aggregate elicitation counters for a project.
type Summary struct {
	TotalRequirements         int `json:"total_requirements"`
	FunctionalRequirements    int `json:"functional_requirements,omitempty"`
	NonFunctionalRequirements int `json:"non_functional_requirements,omitempty"`
	TotalAmbiguities          int `json:"total_ambiguities"`
	AmbiguitiesResolved       int `json:"ambiguities_resolved"`
	TotalContradictions       int `json:"total_contradictions"`
	ContradictionsResolved    int `json:"contradictions_resolved"`
}

// Validate checks the counter bounds. A summary that fails validation is
// never stored by a session.
func (s Summary) Validate() error {
	switch {
	case s.TotalRequirements < 0:
		return fmt.Errorf("total_requirements is negative: %d", s.TotalRequirements)
	case s.FunctionalRequirements < 0 || s.NonFunctionalRequirements < 0:
		return fmt.Errorf("requirement type counts are negative")
	case s.TotalAmbiguities < 0:
		return fmt.Errorf("total_ambiguities is negative: %d", s.TotalAmbiguities)
	case s.AmbiguitiesResolved < 0 || s.AmbiguitiesResolved > s.TotalAmbiguities:
		return fmt.Errorf("ambiguities_resolved %d out of range [0,%d]", s.AmbiguitiesResolved, s.TotalAmbiguities)
	case s.TotalContradictions < 0:
		return fmt.Errorf("total_contradictions is negative: %d", s.TotalContradictions)
	case s.ContradictionsResolved < 0 || s.ContradictionsResolved > s.TotalContradictions:
		return fmt.Errorf("contradictions_resolved %d out of range [0,%d]", s.ContradictionsResolved, s.TotalContradictions)
	}
	return nil
}

// Project is the stored record returned by GET /api/projects/{id}.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedDate string
	Status      string
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
	SenderID  string `json:"sender_id"`
}

// envelope carries the fields every service response shares.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e envelope) ok() bool           { return e.Success }
func (e envelope) remoteError() string { return e.Error }

type result interface {
	ok() bool
	remoteError() string
}

type createProjectResponse struct {
	envelope
	ProjectID flexID `json:"project_id"`
	Message   string `json:"message,omitempty"`
}

// projectResponse is the bare project row; this route has no envelope.
type projectResponse struct {
	ID          flexID `json:"id"`
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
	CreatedDate string `json:"created_date"`
	Status      string `json:"status"`
}

type chatResponse struct {
	envelope
	UserMessage string `json:"user_message,omitempty"`
	BotResponse string `json:"bot_response"`
}

type summaryResponse struct {
	envelope
	Summary *Summary `json:"summary"`
}

type exportResponse struct {
	envelope
	Document string `json:"document"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// flexID accepts a project id encoded either as a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("project_id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("project_id %q is not an integer", n.String())
	}
	*f = flexID(n.String())
	return nil
}
