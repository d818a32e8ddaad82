// Package server exposes chat sessions over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wikichat/internal/domain"
	"wikichat/internal/service"
)

// SessionFactory creates a new isolated chat session.
type SessionFactory interface {
	New() *service.Session
}

type entry struct {
	// mu serialises turns of one session; sessions never share state.
	mu      sync.Mutex
	session *service.Session
}

// Server holds live sessions keyed by id.
type Server struct {
	factory     SessionFactory
	logger      *zap.Logger
	maxSessions int

	mu       sync.Mutex
	sessions map[string]*entry
}

func New(factory SessionFactory, maxSessions int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		factory:     factory,
		logger:      logger,
		maxSessions: maxSessions,
		sessions:    make(map[string]*entry),
	}
}

type sessionView struct {
	ID         string         `json:"id"`
	Mode       string         `json:"mode"`
	Title      string         `json:"title,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Transcript []domain.Entry `json:"transcript"`
}

type createResponse struct {
	ID       string `json:"id"`
	Greeting string `json:"greeting"`
	Usage    string `json:"usage"`
}

type turnRequest struct {
	Utterance string `json:"utterance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/{sessionID}", s.getSession)
		r.Delete("/{sessionID}", s.deleteSession)
		r.Post("/{sessionID}/turns", s.postTurn)
	})
	return r
}

func (s *Server) createSession(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		writeError(w, http.StatusServiceUnavailable, "too many sessions")
		return
	}
	id := uuid.NewString()
	s.sessions[id] = &entry{session: s.factory.New()}
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session", id))
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Greeting: service.Greeting, Usage: service.Usage})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	e := s.lookup(id)
	if e == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	e.mu.Lock()
	view := viewOf(id, e.session)
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postTurn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	e := s.lookup(id)
	if e == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	utterance, err := readUtterance(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e.mu.Lock()
	_, err = e.session.Handle(r.Context(), utterance)
	view := viewOf(id, e.session)
	ended := e.session.Mode() == service.ModeEnded
	e.mu.Unlock()

	switch {
	case errors.Is(err, domain.ErrSessionEnded):
		writeError(w, http.StatusConflict, "session ended")
		return
	case err != nil:
		s.forget(id)
		s.logger.Error("session aborted", zap.String("session", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session aborted")
		return
	}
	if ended {
		s.forget(id)
		s.logger.Info("session ended", zap.String("session", id))
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) lookup(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) forget(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func readUtterance(r *http.Request) (string, error) {
	var utterance string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req turnRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
			return "", errors.New("invalid JSON body")
		}
		utterance = req.Utterance
	} else {
		utterance = r.FormValue("user_input")
	}
	if strings.TrimSpace(utterance) == "" {
		return "", errors.New("utterance is required")
	}
	return utterance, nil
}

func viewOf(id string, s *service.Session) sessionView {
	return sessionView{
		ID:         id,
		Mode:       s.Mode().String(),
		Title:      s.Title(),
		Summary:    s.Summary(),
		Transcript: s.Transcript(),
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
