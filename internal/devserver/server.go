// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/lexchat/internal/backend"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the listen address when none is given.
	DefaultAddr = "127.0.0.1:8000"

	// MaxRequestBodySize caps request bodies (1MB).
	MaxRequestBodySize = 1 << 20

	// MaxMessageLength caps the question length in runes.
	MaxMessageLength = 10000

	shutdownTimeout = 5 * time.Second
)

// SupportedAgents lists the agent types /api/chat accepts.
var SupportedAgents = map[string]bool{
	backend.DefaultAgentType: true,
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Default DefaultAddr.
	Addr string

	// Corpus is the searchable material. Default DefaultCorpus().
	Corpus []Document

	Logger *zap.Logger

	// Latency delays each chat answer, handy for watching the spinner.
	Latency time.Duration

	// RequestsPerSecond limits all requests; 0 disables the limit.
	RequestsPerSecond float64

	CORS *CORSConfig
}

// Server serves the answer-service API over a built-in corpus.
type Server struct {
	addr    string
	corpus  *Corpus
	logger  *zap.Logger
	latency time.Duration
	engine  *gin.Engine
}

// New creates a server. Routes are registered immediately so Handler can
// be used without Run.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Corpus == nil {
		opts.Corpus = DefaultCorpus()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	cors := DefaultCORSConfig()
	if opts.CORS != nil {
		cors = *opts.CORS
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:    opts.Addr,
		corpus:  NewCorpus(opts.Corpus),
		logger:  opts.Logger.Named("devserver"),
		latency: opts.Latency,
		engine:  gin.New(),
	}
	s.engine.Use(
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		corsMiddleware(cors),
		rateLimitMiddleware(opts.RequestsPerSecond, int(opts.RequestsPerSecond)+1),
		bodyLimitMiddleware(MaxRequestBodySize),
	)
	s.setupRoutes()
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler, for httptest or embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/search", s.handleSearch)
	}
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.Int("documents", s.corpus.Len()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "lexchat development backend",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, backend.HealthResponse{Status: "healthy"})
}

// handleChat handles POST /api/chat
func (s *Server) handleChat(c *gin.Context) {
	var req backend.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		abortWithDetail(c, http.StatusBadRequest, "message must not be empty")
		return
	}
	if len([]rune(req.Message)) > MaxMessageLength {
		abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("message exceeds %d characters", MaxMessageLength))
		return
	}
	if req.AgentType == "" {
		req.AgentType = backend.DefaultAgentType
	}
	if !SupportedAgents[req.AgentType] {
		abortWithDetail(c, http.StatusBadRequest, "unsupported agent type: "+req.AgentType)
		return
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-c.Request.Context().Done():
			return
		}
	}

	hits := s.corpus.Search(req.Message, DefaultTopK)
	resp := consult(hits)
	s.logger.Debug("answered",
		zap.String("agent_type", req.AgentType),
		zap.Int("hits", len(hits)),
		zap.Int("citations", len(resp.Citations)))
	c.JSON(http.StatusOK, resp)
}

// handleSearch handles GET /api/search?query=...&top_k=N
func (s *Server) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		abortWithDetail(c, http.StatusBadRequest, "query parameter is required")
		return
	}

	topK := DefaultTopK
	if v := c.Query("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			abortWithDetail(c, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = n
	}

	results := s.corpus.Search(query, topK)
	if results == nil {
		results = []backend.SearchResult{}
	}
	c.JSON(http.StatusOK, backend.SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}
