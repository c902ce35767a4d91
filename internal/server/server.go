package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowstack-ai/flowstack/internal/mcp"
	"github.com/flowstack-ai/flowstack/internal/pipeline"
	"github.com/flowstack-ai/flowstack/internal/store"
	"github.com/flowstack-ai/flowstack/internal/workflow"
	"github.com/flowstack-ai/flowstack/pkg/embeddings"
	"github.com/flowstack-ai/flowstack/pkg/llm"
	"github.com/flowstack-ai/flowstack/pkg/websearch"
)

// Server wires the engine together and exposes it over HTTP: stack
// management, document upload with background ingestion, task polling, and
// the chat endpoint that runs the orchestrator.
type Server struct {
	cfg Config

	stacks    *store.StackRegistry
	documents *store.DocumentRegistry
	vectors   *store.Store

	pipeline     *pipeline.Pipeline
	orchestrator *workflow.Orchestrator
	taskManager  *TaskManager

	httpServer *http.Server
}

// NewServer builds the full engine from config: gateways, stores,
// pipeline, orchestrator, and the HTTP routing around them.
func NewServer(cfg Config) *Server {
	precision := store.PrecisionFloat32
	if strings.EqualFold(cfg.Store.Precision, string(store.PrecisionFloat16)) {
		precision = store.PrecisionFloat16
	}

	vectors := store.New(precision)
	documents := store.NewDocumentRegistry()
	stacks := store.NewStackRegistry()

	embedTimeout := time.Duration(cfg.Embedder.TimeoutSeconds) * time.Second
	var embedder embeddings.Embedder
	if strings.EqualFold(cfg.Embedder.Provider, "openai") {
		embedder = embeddings.NewOpenAIEmbedder(cfg.Embedder.BaseURL, embedTimeout)
	} else {
		embedder = embeddings.NewGoogleEmbedder(cfg.Embedder.BaseURL, embedTimeout)
	}

	pipe := pipeline.New(embedder, vectors, documents)
	searcher := websearch.NewSerpAPIClient(cfg.WebSearch.BaseURL, time.Duration(cfg.WebSearch.TimeoutSeconds)*time.Second)
	orch := workflow.NewOrchestrator(pipe, llm.New(cfg.LLM), searcher)

	s := &Server{
		cfg:          cfg,
		stacks:       stacks,
		documents:    documents,
		vectors:      vectors,
		pipeline:     pipe,
		orchestrator: orch,
		taskManager:  NewTaskManager(),
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain middlewares: Recovery -> Logging -> Mux.
	// Order matters: Recovery must be outer-most to catch everything.
	var handler http.Handler = mux
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	rootMux.Handle("/mcp", mcp.NewHTTPHandler(mcp.NewMCPServer(stacks, orch, pipe)))
	rootMux.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: rootMux,
	}
	return s
}

// Handler exposes the root handler, mainly for tests via httptest.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests. Background ingests keep running;
// their outcome lands on the document status as usual.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
