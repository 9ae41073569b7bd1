package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/berth-dev/elicit/internal/assistant"
)

// Server serves the assistant API from an in-memory State.
type Server struct {
	state    *State
	listener net.Listener
	server   *http.Server
	failChat atomic.Bool
}

// NewServer creates a stub server bound to addr. An empty addr binds a
// random port on localhost.
func NewServer(addr string) (*Server, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("stub: binding listener: %w", err)
	}

	s := NewHandlerServer()
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// NewHandlerServer creates a stub without a listener, for use with
// httptest.NewServer(s.Handler()).
func NewHandlerServer() *Server {
	return &Server{state: NewState()}
}

// State exposes the backing store.
func (s *Server) State() *State {
	return s.state
}

// SetFailChat makes every chat request fail with a 500 until cleared.
func (s *Server) SetFailChat(fail bool) {
	s.failChat.Store(fail)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Start begins serving HTTP requests. It blocks until Stop is called.
func (s *Server) Start() error {
	err := s.server.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	return s.server.Close()
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/chat", s.handleChat)
		r.Post("/projects", s.handleCreateProject)
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/", s.handleProject)
			r.Get("/summary", s.handleSummary)
			r.Get("/export", s.handleExport)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONStatus(w, http.StatusNotFound, map[string]any{"error": "Endpoint not found"})
	})
	return r
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "message": "Stub assistant is running"})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req assistant.CreateProjectRequest
	if !readJSON(w, r, &req) {
		return
	}
	id := s.state.CreateProject(req.ProjectName, req.Description)
	writeJSONStatus(w, http.StatusCreated, map[string]any{
		"success":    true,
		"project_id": id,
		"message":    "Project created successfully",
	})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(chi.URLParam(r, "projectID"))
	if !ok {
		writeJSONStatus(w, http.StatusNotFound, map[string]any{"error": "Project not found"})
		return
	}
	p, ok := s.state.Lookup(id)
	if !ok {
		writeJSONStatus(w, http.StatusNotFound, map[string]any{"error": "Project not found"})
		return
	}
	writeJSON(w, map[string]any{
		"id":            p.ID,
		"project_name":  p.Name,
		"description":   p.Description,
		"created_date":  p.CreatedAt.UTC().Format(time.DateTime),
		"modified_date": p.ModifiedAt.UTC().Format(time.DateTime),
		"status":        "active",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req assistant.ChatRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"error": "Message cannot be empty"})
		return
	}
	if s.failChat.Load() {
		writeFailure(w, http.StatusInternalServerError, "assistant unavailable")
		return
	}

	id, ok := parseProjectID(req.ProjectID)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Project not found")
		return
	}
	reply, ok := s.state.Chat(id, req.Message)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, map[string]any{
		"success":      true,
		"user_message": req.Message,
		"bot_response": reply,
		"project_id":   id,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(chi.URLParam(r, "projectID"))
	if !ok {
		writeFailure(w, http.StatusNotFound, "Project not found")
		return
	}
	sum, ok := s.state.Summary(id)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, map[string]any{
		"success":    true,
		"project_id": id,
		"summary":    sum,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(chi.URLParam(r, "projectID"))
	if !ok {
		writeFailure(w, http.StatusNotFound, "Project not found")
		return
	}
	doc, ok := s.state.Document(id)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, map[string]any{
		"success":    true,
		"document":   doc,
		"project_id": id,
	})
}

// --- Helpers ---

// requestID tags every response with a fresh X-Request-Id, echoing the
// caller's if it sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func parseProjectID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
