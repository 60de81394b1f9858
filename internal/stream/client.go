package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendQueueSize is the per-client outgoing message queue.
	sendQueueSize = 256

	// maxRequestSize bounds inbound subscribe requests.
	maxRequestSize = 4096
)

// request is the inbound client protocol.
type request struct {
	Action  string   `json:"action"`  // "subscribe" or "unsubscribe"
	Tickers []string `json:"tickers"` // ignored for unsubscribe without tickers
}

// client is one connected websocket subscriber.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]struct{} // empty = receive all markets

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: logger,
		subs:   make(map[string]struct{}),
	}
}

// wants reports whether the client should receive updates for a ticker.
func (c *client) wants(ticker string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.subs) == 0 {
		return true
	}
	_, ok := c.subs[ticker]
	return ok
}

// enqueue queues a payload without blocking. Returns false if the
// client is gone or its queue is full.
func (c *client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// close tears the connection down once.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// handleRequest applies one subscribe/unsubscribe request.
func (c *client) handleRequest(data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		c.logger.Debug("ignoring malformed stream request", "err", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch req.Action {
	case "subscribe":
		for _, t := range req.Tickers {
			c.subs[t] = struct{}{}
		}
	case "unsubscribe":
		if len(req.Tickers) == 0 {
			c.subs = make(map[string]struct{})
			return
		}
		for _, t := range req.Tickers {
			delete(c.subs, t)
		}
	default:
		c.logger.Debug("ignoring unknown stream action", "action", req.Action)
	}
}

// readPump consumes inbound requests until the connection drops.
// Pongs extend the read deadline.
func (c *client) readPump(pingInterval time.Duration, onClose func()) {
	defer onClose()

	readWait := pingInterval * 2
	c.conn.SetReadLimit(maxRequestSize)
	c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("stream read failed", "err", err)
			}
			return
		}
		c.handleRequest(data)
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings.
func (c *client) writePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
