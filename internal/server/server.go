// Package server provides the HTTP API over the recommendation engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/config"
	"github.com/clinterm/icdrec/internal/ner"
	"github.com/clinterm/icdrec/internal/recommend"
)

// Server is the HTTP server for the icdrec API.
type Server struct {
	recommender *recommend.Recommender
	index       *catalog.Index
	extractor   *ner.ClinicalNER
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	recommender *recommend.Recommender,
	index *catalog.Index,
	extractor *ner.ClinicalNER,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		recommender: recommender,
		index:       index,
		extractor:   extractor,
		config:      cfg,
		logger:      logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/recommend", s.handleRecommend)
	r.Post("/api/v1/recommend/batch", s.handleBatchRecommend)
	r.Get("/api/v1/codes/{code}", s.handleCodeDetails)
	r.Get("/api/v1/codes", s.handleKeywordSearch)
	r.Get("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/entities", s.handleEntities)
	r.Post("/api/v1/categories", s.handleCategories)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// requestID assigns each request an id, echoed in the X-Request-ID header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
