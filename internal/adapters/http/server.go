package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/presentation/graph"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes bounds the size of a project document.
const MaxBodyBytes = 10 << 20

const (
	codeBadRequest = "BAD_REQUEST"
	codeInternal   = "INTERNAL"
)

// Server serves the generator over HTTP.
type Server struct {
	Generator ports.BotGenerator
	Logger    *slog.Logger
	Version   string
}

// Option configures the handler built by NewHandler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	version  string
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *handlerConfig) { c.logger = l }
}

// WithMetrics exposes gatherer on GET /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(c *handlerConfig) { c.gatherer = gatherer }
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(c *handlerConfig) { c.version = v }
}

// NewHandler creates a new HTTP handler for gen.
func NewHandler(gen ports.BotGenerator, opts ...Option) (http.Handler, error) {
	cfg := handlerConfig{logger: slog.Default(), version: "dev"}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	server := &Server{Generator: gen, Logger: cfg.logger, Version: cfg.version}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if cfg.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(limitBody)
		r.Use(validate)
		r.Post("/generate", server.Generate)
		r.Post("/validate", server.Validate)
		r.Post("/graph", server.Graph)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	project, ok := s.decodeProject(w, r)
	if !ok {
		return
	}

	res, err := s.Generator.Generate(r.Context(), *project)
	if err != nil {
		s.writeGenerationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	project, ok := s.decodeProject(w, r)
	if !ok {
		return
	}

	warnings, err := s.Generator.Validate(r.Context(), *project)
	if err != nil {
		s.writeGenerationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "warnings": warnings})
}

// Graph handles the POST /graph request.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	project, ok := s.decodeProject(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(*project, nil))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "botforge-http",
		"version":     s.Version,
		"api_version": apiVersion,
	})
}

func (s *Server) decodeProject(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "Request body too large", nil)
		return nil, false
	}
	project, err := file.Decode(data, false)
	if err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadRequest, domain.ErrorCode(err), err.Error(), nil)
		return nil, false
	}
	return project, true
}

type nodeProblem struct {
	ID      string `json:"id"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func (s *Server) writeGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusServiceUnavailable, codeInternal, err.Error(), nil)
		return
	}

	var agg *assembler.AggregateError
	if errors.As(err, &agg) {
		problems := make([]nodeProblem, len(agg.Errors))
		for i, ne := range agg.Errors {
			problems[i] = nodeProblem{ID: ne.NodeID, Kind: string(ne.Kind), Message: ne.Err.Error()}
		}
		writeError(w, http.StatusUnprocessableEntity, agg.Code(), err.Error(), problems)
		return
	}

	code := domain.ErrorCode(err)
	if code == "" {
		s.Logger.Error("Generation failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error(), nil)
		return
	}
	var problems []nodeProblem
	for _, id := range domain.ErrorNodeIDs(err) {
		problems = append(problems, nodeProblem{ID: id, Message: err.Error()})
	}
	writeError(w, http.StatusUnprocessableEntity, code, err.Error(), problems)
}

func writeError(w http.ResponseWriter, status int, code, message string, nodes []nodeProblem) {
	body := map[string]any{"code": code, "message": message}
	if len(nodes) > 0 {
		body["nodes"] = nodes
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
