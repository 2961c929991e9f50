// Package http exposes a panel over a JSON API with server-sent events.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/observability"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server -o api.gen.go api/openapi.yaml

// Server serves one panel.
type Server struct {
	Panel   ports.Panel
	Streams *StreamManager
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics serves m on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithStreams shares a stream manager, typically one already registered as
// the panel's change listener.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewHandler creates the HTTP handler for panel.
func NewHandler(panel ports.Panel, opts ...Option) http.Handler {
	s := &Server{Panel: panel}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.Logger)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.paramError,
	})
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <title>analysis-tools API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
        window.ui = SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui' });
    };
</script>
</body>
</html>
`

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Health{Status: ptr("ok")})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := Spec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	} else if err != nil {
		s.Logger.Error("failed to load openapi document", "err", err)
	}
	s.writeJSON(w, http.StatusOK, Info{
		App:        ptr("analysis-tools"),
		Version:    ptr(strings.TrimSpace(analysistools.Version)),
		ApiVersion: ptr(apiVersion),
	})
}

// GetMetrics handles GET /metrics. Without a registry the route answers 404.
func (s *Server) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		s.writeJSON(w, http.StatusNotFound, Error{Error: "metrics are disabled"})
		return
	}
	s.Metrics.Handler().ServeHTTP(w, r)
}

// OpenFile handles POST /files/open.
func (s *Server) OpenFile(w http.ResponseWriter, r *http.Request) {
	var body OpenFileJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Path == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	if _, err := s.Panel.OpenFile(r.Context(), body.Path); err != nil {
		s.Logger.Warn("open failed", "path", body.Path, "err", err)
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Panel.Snapshot())
}

// CloseFile handles POST /files/close.
func (s *Server) CloseFile(w http.ResponseWriter, r *http.Request) {
	if err := s.Panel.CloseFile(r.Context()); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Panel.Snapshot())
}

// GetTree handles GET /tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	snap := s.Panel.Snapshot()
	if snap.Tree == nil {
		s.writeDomainError(w, domain.ErrNoFileOpen)
		return
	}
	s.writeJSON(w, http.StatusOK, snap.Tree)
}

// SelectChannel handles PUT /selection.
func (s *Server) SelectChannel(w http.ResponseWriter, r *http.Request) {
	var body SelectChannelJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.Panel.Select(r.Context(), body.Channel); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Panel.Snapshot())
}

// GetPlots handles GET /plots.
func (s *Server) GetPlots(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Panel.Snapshot().Plots)
}

// SetPlot handles PUT /plots/{kind}.
func (s *Server) SetPlot(w http.ResponseWriter, r *http.Request, kindParam SetPlotParamsKind) {
	kind, err := domain.ParsePlotKind(string(kindParam))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	var body SetPlotJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("body must be {\"enabled\": bool}"))
		return
	}
	if err := s.Panel.SetPlot(r.Context(), kind, *body.Enabled); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Panel.Snapshot().Plots)
}

// ReadChannel handles GET /channels/data?path=.
func (s *Server) ReadChannel(w http.ResponseWriter, r *http.Request, params ReadChannelParams) {
	samples, err := s.Panel.ReadChannel(r.Context(), params.Path)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ChannelData{Path: params.Path, Samples: samples})
}

// SubscribeEvents handles GET /events (SSE). Each message is a SessionDiff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SSE: streaming not supported")
		return
	}

	var watch []string
	if params.Watch != nil && *params.Watch != "" {
		watch = strings.Split(*params.Watch, ",")
	}

	sessionID := s.Panel.Snapshot().ID
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.Logger.Info("SSE: client subscribed", "session_id", sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 {
				var diff domain.SessionDiff
				if err := json.Unmarshal([]byte(msg), &diff); err == nil && !matchesWatch(&diff, watch) {
					continue
				}
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFileNotFound), errors.Is(err, domain.ErrChannelNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotHDF5), errors.Is(err, domain.ErrCorruptFile), errors.Is(err, domain.ErrTraversal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoFileOpen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownPlot):
		return http.StatusBadRequest
	case errors.Is(err, analysistools.ErrReadUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	resp := Error{Error: err.Error()}
	if domain.IsOpenFailure(err) {
		resp.Reason = ptr(observability.FailureReason(err))
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.Logger.Warn("bad request", "err", err)
	s.writeJSON(w, status, Error{Error: err.Error()})
}

// paramError reports a parameter the router could not bind.
func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, http.StatusBadRequest, err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
