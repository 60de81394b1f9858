package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openpredict/lmsr-pricer/internal/model"
	"github.com/openpredict/lmsr-pricer/internal/router"
)

// Config holds stream server configuration.
type Config struct {
	Port         int
	PingInterval time.Duration // Default: 30s
	WriteTimeout time.Duration // Default: 10s
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:         8081,
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// ServerStats provides statistics about the stream server.
type ServerStats struct {
	Clients          int
	UpdatesBroadcast int64
	MessagesSent     int64
	SlowClientDrops  int64
}

// Server broadcasts price updates to websocket subscribers.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	input    *router.GrowableBuffer[model.PriceUpdate]
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.RWMutex
	clients map[*client]struct{}

	statsMu   sync.Mutex
	broadcast int64
	sent      int64
	drops     int64

	wg sync.WaitGroup
}

// NewServer creates a stream server fed by the router's update buffer.
func NewServer(cfg Config, input *router.GrowableBuffer[model.PriceUpdate], logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		input:  input,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/stream", s.handleWS)
	return mux
}

// Start begins the broadcast loop and serves the websocket endpoint.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Handler(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.broadcastLoop()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("stream server failed", "error", err)
		}
	}()

	s.logger.Info("stream server started",
		"port", s.cfg.Port,
		"ping_interval", s.cfg.PingInterval,
	)
	return nil
}

// Stop shuts the server down, disconnecting all clients.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Warn("stream server shutdown", "err", err)
		}
	}

	s.mu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("stream server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current statistics.
func (s *Server) Stats() ServerStats {
	s.mu.RLock()
	clients := len(s.clients)
	s.mu.RUnlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return ServerStats{
		Clients:          clients,
		UpdatesBroadcast: s.broadcast,
		MessagesSent:     s.sent,
		SlowClientDrops:  s.drops,
	}
}

// handleWS upgrades a connection and starts its pumps.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := newClient(conn, s.logger)

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug("stream client connected", "remote", conn.RemoteAddr())

	go c.writePump(s.cfg.PingInterval, s.cfg.WriteTimeout)
	go c.readPump(s.cfg.PingInterval, func() {
		s.removeClient(c)
	})
}

// removeClient unregisters and closes a client.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
}

// broadcastLoop drains the update buffer and fans payloads out to
// subscribed clients. Exits when the buffer closes.
func (s *Server) broadcastLoop() {
	for {
		update, ok := s.input.Receive()
		if !ok {
			return
		}
		s.deliver(update)
	}
}

// deliver serializes one update and queues it to matching clients.
func (s *Server) deliver(update model.PriceUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		s.logger.Error("failed to marshal price update", "error", err, "ticker", update.Ticker)
		return
	}

	s.mu.RLock()
	targets := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		if c.wants(update.Ticker) {
			targets = append(targets, c)
		}
	}
	s.mu.RUnlock()

	var sent, dropped int64
	for _, c := range targets {
		if c.enqueue(payload) {
			sent++
			continue
		}
		// A full queue means the client stopped reading.
		dropped++
		s.removeClient(c)
	}

	s.statsMu.Lock()
	s.broadcast++
	s.sent += sent
	s.drops += dropped
	s.statsMu.Unlock()

	if dropped > 0 {
		s.logger.Warn("dropped slow stream clients", "count", dropped, "ticker", update.Ticker)
	}
}
