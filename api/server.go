package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"sheetlint/app"
	"sheetlint/domain/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// Server exposes loaded datasets over HTTP for inspection. Sessions are
// held in memory only and die with the process.
type Server struct {
	router  chi.Router
	ingest  *app.IngestService
	profile *app.ProfileService

	mu       sync.RWMutex
	sessions map[string]*app.LoadResult
}

// NewServer creates the API server and mounts its routes
func NewServer(ingest *app.IngestService, profile *app.ProfileService) *Server {
	s := &Server{
		ingest:   ingest,
		profile:  profile,
		sessions: make(map[string]*app.LoadResult),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/datasets", s.handleUpload)
		r.Get("/datasets/{id}", s.handleDataset)
		r.Get("/datasets/{id}/diagnostics", s.handleDiagnostics)
		r.Get("/datasets/{id}/profile", s.handleProfile)
	})
	r.Get("/healthz", s.handleHealth)

	s.router = r
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[Server] Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// storeSession registers a load result and returns its dataset id
func (s *Server) storeSession(result *app.LoadResult) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := result.DatasetID.String()
	s.sessions[id] = result
	return id
}

// session fetches a load result by dataset id
func (s *Server) session(id string) (*app.LoadResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w with id %s", core.ErrDatasetNotFound, id)
	}
	return result, nil
}
