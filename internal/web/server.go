// Package web provides the HTTP JSON API for the propdesk back-office.
package web

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/propdesk/backoffice/internal/agent"
	"github.com/propdesk/backoffice/internal/client"
	"github.com/propdesk/backoffice/internal/contract"
	"github.com/propdesk/backoffice/internal/engine"
	"github.com/propdesk/backoffice/internal/logging"
	"github.com/propdesk/backoffice/internal/metrics"
	"github.com/propdesk/backoffice/internal/property"
	"github.com/propdesk/backoffice/internal/rental"
	"github.com/propdesk/backoffice/internal/sale"
	"github.com/propdesk/backoffice/internal/visit"
)

// Server is the JSON API HTTP server.
type Server struct {
	engine       *engine.Service
	propRepo     *property.Repository
	clientRepo   *client.Repository
	agentRepo    *agent.Repository
	contractRepo *contract.Repository
	saleRepo     *sale.Repository
	rentalRepo   *rental.Repository
	visitRepo    *visit.Repository
	now          func() time.Time
	mux          *http.ServeMux
	handler      http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for "today" in the engine and in
// date-window lookups.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates an API server over the given database.
func NewServer(db *sql.DB, opts ...Option) *Server {
	s := &Server{
		propRepo:     property.NewRepository(db),
		clientRepo:   client.NewRepository(db),
		agentRepo:    agent.NewRepository(db),
		contractRepo: contract.NewRepository(db),
		saleRepo:     sale.NewRepository(db),
		rentalRepo:   rental.NewRepository(db),
		visitRepo:    visit.NewRepository(db),
		now:          time.Now,
		mux:          http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.NewService(db, engine.WithClock(s.now))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", metrics.Handler())

	s.mux.HandleFunc("POST /api/ajax/{module}/{action}", s.handleAJAX)
	s.mux.HandleFunc("GET /api/statuses", s.handleStatuses)

	s.mux.HandleFunc("GET /api/properties", s.apiListProperties)
	s.mux.HandleFunc("POST /api/properties", s.apiAddProperty)
	s.mux.HandleFunc("GET /api/properties/{id}", s.apiGetProperty)
	s.mux.HandleFunc("GET /api/clients", s.apiListClients)
	s.mux.HandleFunc("POST /api/clients", s.apiAddClient)
	s.mux.HandleFunc("GET /api/clients/{id}", s.apiGetClient)
	s.mux.HandleFunc("GET /api/agents", s.apiListAgents)
	s.mux.HandleFunc("POST /api/agents", s.apiAddAgent)
	s.mux.HandleFunc("GET /api/agents/{id}", s.apiGetAgent)
	s.mux.HandleFunc("GET /api/contracts", s.apiListContracts)
	s.mux.HandleFunc("POST /api/contracts", s.apiAddContract)

	s.mux.HandleFunc("GET /api/sales", s.apiSearchSales)
	s.mux.HandleFunc("GET /api/sales/{id}", s.apiGetSale)
	s.mux.HandleFunc("GET /api/rentals", s.apiSearchRentals)
	s.mux.HandleFunc("GET /api/rentals/expiring", s.apiExpiringRentals)
	s.mux.HandleFunc("GET /api/rentals/{id}", s.apiGetRental)
	s.mux.HandleFunc("GET /api/visits", s.apiSearchVisits)
	s.mux.HandleFunc("GET /api/visits/upcoming", s.apiUpcomingVisits)
	s.mux.HandleFunc("GET /api/visits/{id}", s.apiGetVisit)

	s.handler = logging.RequestLogger(metrics.Middleware(s.mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
