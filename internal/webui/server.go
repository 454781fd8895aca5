package webui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"assfontui/internal/api"
	"assfontui/internal/logging"
)

//go:embed static/index.html
var indexHTML []byte

const maxBodyBytes = 1 << 20

type server struct {
	svc    *api.Service
	logger *slog.Logger
}

// NewHandler returns the router for the web UI.
func NewHandler(svc *api.Service, logger *slog.Logger) http.Handler {
	s := &server{svc: svc, logger: logging.NewComponentLogger(logger, "webui")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/config/defaults", s.handleDefaults)
		r.Post("/config/load", s.handleLoadConfig)
		r.Post("/config/save", s.handleSaveConfig)
		r.Post("/run", s.handleRun)
		r.Post("/port", s.handleSavePort)
		r.Get("/log", s.handleLog)
	})
	return r
}

type messageResponse struct {
	Message string `json:"message"`
}

type logResponse struct {
	Text string `json:"text"`
}

type loadRequest struct {
	Path string `json:"path"`
}

type portRequest struct {
	Port json.RawMessage `json:"port"`
}

func (s *server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Defaults())
}

func (s *server) handleLoadConfig(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.svc.LoadConfig(req.Path))
}

func (s *server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req api.SaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: s.svc.SaveConfig(req)})
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req api.RunRequest
	if !s.decode(w, r, &req) {
		return
	}
	// The engine runs to completion even if the client goes away; only the
	// configured run timeout may stop it.
	ctx := context.WithoutCancel(r.Context())
	s.writeJSON(w, http.StatusOK, s.svc.Execute(ctx, req))
}

func (s *server) handleSavePort(w http.ResponseWriter, r *http.Request) {
	var req portRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: s.svc.SavePort(portText(req.Port))})
}

func (s *server) handleLog(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, logResponse{Text: s.svc.ReadLog()})
}

// portText accepts the port as a JSON string or number.
func portText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(raw))
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.WithContext(r.Context(), s.logger).Debug("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Duration("duration", time.Since(start)),
		)
	})
}
