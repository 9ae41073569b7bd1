package assistant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/elicit/internal/assistant"
	"github.com/berth-dev/elicit/internal/stub"
)

func newStubClient(t *testing.T) *assistant.Client {
	t.Helper()
	ts := httptest.NewServer(stub.NewHandlerServer().Handler())
	c := assistant.NewClient(ts.URL+"/", 5*time.Second)
	t.Cleanup(func() {
		c.Close()
		ts.Close()
	})
	return c
}

func newRawClient(t *testing.T, h http.HandlerFunc) *assistant.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	c := assistant.NewClient(ts.URL, 5*time.Second)
	t.Cleanup(func() {
		c.Close()
		ts.Close()
	})
	return c
}

func TestClientAgainstStub(t *testing.T) {
	c := newStubClient(t)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	id, err := c.CreateProject(ctx, "Portal", "customer portal")
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	reply, err := c.Chat(ctx, assistant.ChatRequest{Message: "We need a login page", ProjectID: id, SenderID: "user_1"})
	require.NoError(t, err)
	assert.Contains(t, reply, "functional requirement")

	sum, err := c.Summary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalRequirements)
	assert.Equal(t, 1, sum.FunctionalRequirements)

	doc, err := c.Export(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, doc, "FR-1: We need a login page")
}

func TestClientProject(t *testing.T) {
	c := newStubClient(t)
	ctx := context.Background()

	id, err := c.CreateProject(ctx, "Portal", "customer portal")
	require.NoError(t, err)

	p, err := c.Project(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Portal", p.Name)
	assert.Equal(t, "customer portal", p.Description)
	assert.Equal(t, "active", p.Status)
	assert.NotEmpty(t, p.CreatedDate)

	_, err = c.Project(ctx, "99")
	var se *assistant.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Project not found", se.Message)
}

func TestClientUnknownProject(t *testing.T) {
	c := newStubClient(t)

	_, err := c.Summary(context.Background(), "42")
	var se *assistant.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Project not found", se.Message)
}

func TestClientEmptyMessageRejectedByServer(t *testing.T) {
	c := newStubClient(t)
	id, err := c.CreateProject(context.Background(), "Portal", "")
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), assistant.ChatRequest{ProjectID: id})
	var se *assistant.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "Message cannot be empty", se.Message)
}

func TestClientServiceFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:    "success false",
			status:  http.StatusOK,
			body:    `{"success":false,"error":"analysis failed"}`,
			wantMsg: "analysis failed",
		},
		{
			name:    "success false without text",
			status:  http.StatusOK,
			body:    `{"success":false}`,
			wantMsg: "success=false",
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"success":false,"error":"boom"}`,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
		{
			name:       "server error without json",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Bad Gateway",
		},
		{
			name:       "malformed json",
			status:     http.StatusOK,
			body:       `{"success":tru`,
			wantStatus: http.StatusOK,
			wantMsg:    "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRawClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Chat(context.Background(), assistant.ChatRequest{Message: "hi", ProjectID: "1"})
			var se *assistant.ServiceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantStatus, se.StatusCode)
			assert.Contains(t, se.Message, tt.wantMsg)
			assert.True(t, assistant.IsRemote(err))
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := assistant.NewClient(url, time.Second)
	defer c.Close()

	_, err := c.Chat(context.Background(), assistant.ChatRequest{Message: "hi", ProjectID: "1"})
	var te *assistant.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "chat", te.Op)
	assert.True(t, assistant.IsRemote(err))
	assert.False(t, assistant.IsRemote(errors.New("local")))
}

func TestClientCanceledContext(t *testing.T) {
	c := newStubClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Health(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCreateProjectIDForms(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "number", body: `{"success":true,"project_id":7}`, want: "7"},
		{name: "string", body: `{"success":true,"project_id":"p1"}`, want: "p1"},
		{name: "missing", body: `{"success":true}`, wantErr: true},
		{name: "null", body: `{"success":true,"project_id":null}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/projects", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(tt.body))
			})

			id, err := c.CreateProject(context.Background(), "Portal", "")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestSummaryValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing summary", body: `{"success":true}`},
		{name: "resolved exceeds total", body: `{"success":true,"summary":{"total_requirements":1,"total_ambiguities":1,"ambiguities_resolved":2,"total_contradictions":0,"contradictions_resolved":0}}`},
		{name: "negative", body: `{"success":true,"summary":{"total_requirements":-1,"total_ambiguities":0,"ambiguities_resolved":0,"total_contradictions":0,"contradictions_resolved":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRawClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Summary(context.Background(), "1")
			var se *assistant.ServiceError
			require.ErrorAs(t, err, &se)
		})
	}
}

func TestHealthReportsBadStatus(t *testing.T) {
	c := newRawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"degraded"}`))
	})
	require.Error(t, c.Health(context.Background()))
}
