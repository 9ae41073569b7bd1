package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when the caller does not supply one.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client talks to the assistant's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the service rooted at baseURL
// (e.g. "http://localhost:5000"). A zero timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle keep-alive connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/api/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return &ServiceError{Op: "health", Message: fmt.Sprintf("status %q", resp.Status)}
	}
	return nil
}

// CreateProject registers a new project and returns its id.
func (c *Client) CreateProject(ctx context.Context, name, description string) (string, error) {
	req := CreateProjectRequest{ProjectName: name, Description: description}
	var resp createProjectResponse
	if err := c.call(ctx, "create project", http.MethodPost, "/api/projects", req, &resp); err != nil {
		return "", err
	}
	if resp.ProjectID == "" {
		return "", &ServiceError{Op: "create project", Message: "response has no project_id"}
	}
	return string(resp.ProjectID), nil
}

// Project fetches the stored record for a project.
func (c *Client) Project(ctx context.Context, projectID string) (*Project, error) {
	var resp projectResponse
	path := "/api/projects/" + url.PathEscape(projectID)
	if err := c.do(ctx, "project", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, &ServiceError{Op: "project", Message: "response has no id"}
	}
	return &Project{
		ID:          string(resp.ID),
		Name:        resp.ProjectName,
		Description: resp.Description,
		CreatedDate: resp.CreatedDate,
		Status:      resp.Status,
	}, nil
}

// Chat sends one user turn and returns the assistant's reply text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var resp chatResponse
	if err := c.call(ctx, "chat", http.MethodPost, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.BotResponse, nil
}

// Summary fetches the aggregate counters for a project.
func (c *Client) Summary(ctx context.Context, projectID string) (*Summary, error) {
	var resp summaryResponse
	path := "/api/projects/" + url.PathEscape(projectID) + "/summary"
	if err := c.call(ctx, "summary", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Summary == nil {
		return nil, &ServiceError{Op: "summary", Message: "response has no summary"}
	}
	if err := resp.Summary.Validate(); err != nil {
		return nil, &ServiceError{Op: "summary", Message: err.Error()}
	}
	return resp.Summary, nil
}

// Export fetches the rendered requirements document for a project.
func (c *Client) Export(ctx context.Context, projectID string) (string, error) {
	var resp exportResponse
	path := "/api/projects/" + url.PathEscape(projectID) + "/export"
	if err := c.call(ctx, "export", http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Document, nil
}

// call performs a request whose response carries the success envelope.
func (c *Client) call(ctx context.Context, op, method, path string, body any, out result) error {
	if err := c.do(ctx, op, method, path, body, out); err != nil {
		return err
	}
	if !out.ok() {
		msg := out.remoteError()
		if msg == "" {
			msg = "success=false"
		}
		return &ServiceError{Op: op, Message: msg}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("assistant: %s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("assistant: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &env) == nil && env.Error != "" {
			msg = env.Error
		}
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
