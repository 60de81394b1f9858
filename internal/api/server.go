package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/openpredict/lmsr-pricer/internal/lmsr"
	"github.com/openpredict/lmsr-pricer/internal/model"
)

// MarketView is the read surface the handlers price against.
type MarketView interface {
	List() []model.Market
	MarketSnapshot(ticker string) (model.Market, bool)
	PricingSnapshot(ticker string) (*lmsr.Snapshot, bool)
	Len() int
}

// Pinger reports database health. Implemented by database.Pools.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds API server configuration.
type Config struct {
	Port        int
	ReadTimeout time.Duration // Default: 10s
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:        8080,
		ReadTimeout: 10 * time.Second,
	}
}

// Server serves the pricing query API.
type Server struct {
	cfg     Config
	markets MarketView
	db      Pinger // nil disables the database health check
	logger  *slog.Logger
	httpSrv *http.Server
}

// NewServer creates an API server over the given market view.
func NewServer(cfg Config, markets MarketView, db Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		markets: markets,
		db:      db,
		logger:  logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/markets", s.handleListMarkets).Methods(http.MethodGet)
	v1.HandleFunc("/markets/{ticker}", s.handleGetMarket).Methods(http.MethodGet)
	v1.HandleFunc("/markets/{ticker}/price", s.handlePrice).Methods(http.MethodGet)
	v1.HandleFunc("/markets/{ticker}/cost", s.handleCost).Methods(http.MethodGet)
	v1.HandleFunc("/markets/{ticker}/profit", s.handleProfit).Methods(http.MethodGet)
	return r
}

// Start begins serving requests.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.cfg.Port),
		Handler:     s.Router(),
		ReadTimeout: s.cfg.ReadTimeout,
	}

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("api server failed", "error", err)
		}
	}()

	s.logger.Info("api server started", "port", s.cfg.Port)
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
