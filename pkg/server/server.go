// Package server exposes the engines, comparison sessions and graph library
// as a JSON HTTP API.
//
// # Routes
//
// All routes live under /api/v1:
//
//	POST   /kruskal/init           {nodes, edges}          -> KruskalState
//	POST   /kruskal/step           {state, nodes}          -> KruskalState
//	POST   /prim/init              {nodes, edges}          -> PrimState
//	POST   /prim/step              {state, nodes, edges}   -> PrimState
//	POST   /prim/project           {state, edges}          -> []Edge
//	POST   /layout                 {nodes, edges, type}    -> {nodes}
//	POST   /stats                  {nodes, edges}          -> Stats
//	GET    /complexity?nodes=&edges=
//	POST   /render                 {nodes, edges, format}  -> artifact bytes
//	GET    /templates, POST /templates/{id}, POST /generate, GET /scenarios
//	/sessions and /graphs          comparison sessions and the saved-graph library
//	GET    /history, DELETE /history   the last completed runs
//
// Errors are returned as {"code": ..., "message": ...} with the status from
// [apperrors.HTTPStatus].
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spantree/pkg/buildinfo"
	"github.com/matzehuels/spantree/pkg/history"
	"github.com/matzehuels/spantree/pkg/library"
	"github.com/matzehuels/spantree/pkg/pipeline"
	"github.com/matzehuels/spantree/pkg/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Config wires the server's backends. Runner, Sessions and Library are
// required; Metrics is mounted at /metrics when set. Without History the
// server keeps its own in-memory log.
type Config struct {
	Runner     *pipeline.Runner
	Sessions   session.Store
	Library    library.Store
	History    *history.Recorder
	Logger     *log.Logger
	Metrics    http.Handler
	SessionTTL time.Duration
}

// Server is the HTTP API.
type Server struct {
	runner     *pipeline.Runner
	sessions   session.Store
	library    library.Store
	history    *history.Recorder
	logger     *log.Logger
	metrics    http.Handler
	sessionTTL time.Duration

	// sessionMu serializes load-modify-save cycles on sessions.
	sessionMu sync.Mutex
}

// New creates a server from cfg.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil || cfg.Sessions == nil || cfg.Library == nil {
		return nil, errors.New("server: runner, session store and library are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	hist := cfg.History
	if hist == nil {
		hist = history.New()
	}
	return &Server{
		runner:     cfg.Runner,
		sessions:   cfg.Sessions,
		library:    cfg.Library,
		history:    hist,
		logger:     logger,
		metrics:    cfg.Metrics,
		sessionTTL: ttl,
	}, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			buildinfo.Info
		}{"ok", buildinfo.Get()})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/kruskal", func(r chi.Router) {
			r.Post("/init", s.handleKruskalInit)
			r.Post("/step", s.handleKruskalStep)
		})
		r.Route("/prim", func(r chi.Router) {
			r.Post("/init", s.handlePrimInit)
			r.Post("/step", s.handlePrimStep)
			r.Post("/project", s.handlePrimProject)
		})
		r.Post("/layout", s.handleLayout)
		r.Post("/stats", s.handleStats)
		r.Get("/complexity", s.handleComplexity)
		r.Post("/render", s.handleRender)

		r.Get("/templates", s.handleTemplates)
		r.Post("/templates/{id}", s.handleBuildTemplate)
		r.Post("/generate", s.handleGenerate)
		r.Get("/scenarios", s.handleScenarios)

		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Patch("/", s.handleUpdateSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/tick", s.handleTick)
				r.Post("/step", s.handleStep)
				r.Post("/start", s.handleStart)
				r.Post("/pause", s.handlePause)
				r.Post("/reset", s.handleReset)
				r.Get("/result", s.handleResult)
			})
		})

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleListGraphs)
			r.Post("/", s.handleSaveGraph)
			r.Get("/{id}", s.handleGetGraph)
			r.Get("/{id}/export", s.handleExportGraph)
			r.Delete("/{id}", s.handleDeleteGraph)
		})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
