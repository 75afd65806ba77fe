package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/internal/logging"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// Assistant is the part of hearth.Assistant the HTTP transport drives.
type Assistant interface {
	Handle(ctx context.Context, sessionID string, turn domain.Turn) (domain.Response, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	Sessions(ctx context.Context) ([]string, error)
	Reset(ctx context.Context, sessionID string) error
	Subscribe(fn hearth.ChangeFunc) (cancel func())
}

var _ Assistant = (*hearth.Assistant)(nil)

// TurnRequest is the body of POST /turns.
type TurnRequest struct {
	SessionID string          `json:"session_id,omitempty"`
	Intent    domain.Intent   `json:"intent"`
	Entities  []domain.Entity `json:"entities,omitempty"`
}

// TurnResponse is the outcome of a turn.
type TurnResponse struct {
	SessionID string              `json:"session_id"`
	Kind      domain.ResponseKind `json:"kind"`
	Text      string              `json:"text"`
}

// Server exposes an Assistant over HTTP.
type Server struct {
	Assistant Assistant
	Streams   *StreamManager

	metrics     http.Handler
	logger      *slog.Logger
	router      chi.Router
	unsubscribe func()
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer builds the router and starts forwarding session diffs to SSE clients.
// Call Close to stop forwarding.
func NewServer(assistant Assistant, opts ...Option) (*Server, error) {
	s := &Server{Assistant: assistant}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams = NewStreamManager(s.logger)

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	// Only the operations described in openapi.yaml are validated against it.
	r.Group(func(r chi.Router) {
		r.Use(validate)

		r.Post("/turns", s.PostTurn)
		r.Get("/sessions", s.ListSessions)
		r.Get("/sessions/{sessionId}", s.GetSession)
		r.Delete("/sessions/{sessionId}", s.DeleteSession)
		r.Post("/sessions/{sessionId}/turns", s.PostSessionTurn)
		r.Get("/events", s.SubscribeEvents)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	s.router = r

	s.unsubscribe = assistant.Subscribe(func(_ context.Context, diff *domain.SessionDiff) {
		s.Streams.Broadcast(diff)
	})
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops forwarding session diffs.
func (s *Server) Close() {
	s.unsubscribe()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <title>Hearth API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => { window.ui = SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui' }); };
</script>
</body>
</html>
`

// PostTurn handles POST /turns. A request without session_id starts a new session.
func (s *Server) PostTurn(w http.ResponseWriter, r *http.Request) {
	var body TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.runTurn(w, r, sessionID, domain.Turn{Intent: body.Intent, Entities: body.Entities})
}

// PostSessionTurn handles POST /sessions/{sessionId}/turns.
func (s *Server) PostSessionTurn(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := bindSessionID(w, r)
	if !ok {
		return
	}
	var turn domain.Turn
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.runTurn(w, r, sessionID, turn)
}

func (s *Server) runTurn(w http.ResponseWriter, r *http.Request, sessionID string, turn domain.Turn) {
	resp, err := s.Assistant.Handle(r.Context(), sessionID, turn)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingEntity), errors.Is(err, domain.ErrRecordNotFound):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			s.logger.ErrorContext(r.Context(), "turn failed", "session_id", sessionID, "intent", turn.Intent, "err", err)
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, TurnResponse{SessionID: sessionID, Kind: resp.Kind, Text: resp.Text})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Assistant.Sessions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list sessions failed", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetSession handles GET /sessions/{sessionId}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := bindSessionID(w, r)
	if !ok {
		return
	}
	session, err := s.Assistant.Session(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.ErrorContext(r.Context(), "load session failed", "session_id", sessionID, "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// DeleteSession handles DELETE /sessions/{sessionId}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := bindSessionID(w, r)
	if !ok {
		return
	}
	if err := s.Assistant.Reset(r.Context(), sessionID); err != nil {
		s.logger.ErrorContext(r.Context(), "reset session failed", "session_id", sessionID, "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "hearth-http",
		"version":     hearth.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events: one SSE data message per session diff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	var sessionID string
	if err := runtime.BindQueryParameter("form", true, true, "session_id", r.URL.Query(), &sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var watch *string
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &watch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var watchList []string
	if watch != nil {
		watchList = strings.Split(*watch, ",")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.logger.InfoContext(r.Context(), "sse client subscribed", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.InfoContext(r.Context(), "sse client disconnected", "session_id", sessionID)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if !watched(diff, watchList) {
				continue
			}
			data, err := json.Marshal(diff)
			if err != nil {
				s.logger.ErrorContext(r.Context(), "encode diff failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// watched reports whether diff touches any field in watchList. An empty list watches everything.
func watched(diff *domain.SessionDiff, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "thermostats":
			if len(diff.Thermostats) > 0 {
				return true
			}
		case "frame":
			if diff.Frame != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func bindSessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var sessionID string
	err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &sessionID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid sessionId: %w", err))
		return "", false
	}
	return sessionID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
