// Package websocket pushes live reload notifications to open documentation
// pages. One hub goroutine owns the client set; each connection has a writer
// goroutine fed by a buffered channel, and a slow client is dropped rather
// than allowed to stall a broadcast.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"github.com/ayden94/caro-kann-docs/internal/logging"
	"github.com/ayden94/caro-kann-docs/internal/security"
	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second

	// Outgoing messages buffered per client.
	sendBuffer = 16

	// DefaultMaxConnectionsPerIP bounds reload sockets from one address.
	DefaultMaxConnectionsPerIP = 20
)

// Message types sent to the browser.
const (
	MessageReload = "reload"
	MessageError  = "error"
)

// ErrHubClosed is returned by Broadcast after Shutdown.
var ErrHubClosed = errors.New("websocket: hub is shut down")

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Paths     []string  `json:"paths,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	ip   string
}

// Hub accepts live reload connections and fans messages out to them.
type Hub struct {
	origins  security.OriginValidator
	logger   logging.Logger
	maxPerIP int

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	// clients is owned by run
	clients map[*client]struct{}
	count   atomic.Int64

	ipMu  sync.Mutex
	perIP map[string]int

	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// HubOption customises a Hub.
type HubOption func(*Hub)

// WithMaxConnectionsPerIP sets the per-address connection limit. Zero or
// less disables the limit.
func WithMaxConnectionsPerIP(n int) HubOption {
	return func(h *Hub) { h.maxPerIP = n }
}

// NewHub creates a hub and starts its goroutine. origins must not be nil.
func NewHub(origins security.OriginValidator, logger logging.Logger, opts ...HubOption) *Hub {
	if origins == nil {
		panic("websocket: NewHub requires an origin validator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		origins:    origins,
		logger:     logger.WithComponent("livereload"),
		maxPerIP:   DefaultMaxConnectionsPerIP,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte),
		clients:    make(map[*client]struct{}),
		perIP:      make(map[string]int),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	go h.run()
	return h
}

// ServeHTTP upgrades the request to a websocket and registers the client.
// Requests from origins the validator rejects get 403.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ctx.Err() != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	origin := r.Header.Get("Origin")
	if !h.origins.IsAllowedOrigin(origin) {
		h.reject(w, r, docserrors.ErrInvalidOrigin(logging.SanitizeForLog(origin)), http.StatusForbidden)
		return
	}

	ip := security.ClientIP(r)
	if !h.acquire(ip) {
		h.reject(w, r, docserrors.ErrConnectionLimit(ip, h.maxPerIP), http.StatusTooManyRequests)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin is validated above
		InsecureSkipVerify: true,
		CompressionMode:    websocket.CompressionDisabled,
	})
	if err != nil {
		h.release(ip)
		// Accept has already answered the request
		h.reject(nil, r, docserrors.Wrap(err, docserrors.ErrorTypeNetwork, docserrors.ErrCodeWebSocket,
			"websocket upgrade failed"), 0)
		return
	}
	conn.SetReadLimit(512)

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), ip: ip}

	select {
	case h.register <- c:
	case <-h.ctx.Done():
		h.release(ip)
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// reject logs a refused connection with a hint for the operator and, when w
// is set, answers with status.
func (h *Hub) reject(w http.ResponseWriter, r *http.Request, err error, status int) {
	fields := []interface{}{"ip", security.ClientIP(r)}
	if hints := docserrors.WebSocketError(err); len(hints) > 0 {
		fields = append(fields, "hint", hints[0].Description)
	}
	h.logger.Warn(r.Context(), err, "WebSocket connection rejected", fields...)

	if w != nil {
		http.Error(w, http.StatusText(status), status)
	}
}

func (h *Hub) acquire(ip string) bool {
	h.ipMu.Lock()
	defer h.ipMu.Unlock()
	if h.maxPerIP > 0 && h.perIP[ip] >= h.maxPerIP {
		return false
	}
	h.perIP[ip]++
	return true
}

func (h *Hub) release(ip string) {
	h.ipMu.Lock()
	defer h.ipMu.Unlock()
	if h.perIP[ip] <= 1 {
		delete(h.perIP, ip)
		return
	}
	h.perIP[ip]--
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			h.wg.Add(1)
			go h.serveClient(c)
			h.logger.Debug(h.ctx, "WebSocket client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn(h.ctx, nil, "Dropping slow WebSocket client", "ip", c.ip)
					h.remove(c)
				}
			}

		case <-h.ctx.Done():
			for c := range h.clients {
				h.remove(c)
			}
			return
		}
	}
}

// remove must only be called from run.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
	h.logger.Debug(h.ctx, "WebSocket client disconnected", "clients", len(h.clients))
}

func (h *Hub) serveClient(c *client) {
	defer h.wg.Done()
	defer h.release(c.ip)

	// The page never sends anything; CloseRead handles control frames and
	// cancels ctx when the peer goes away.
	ctx := c.conn.CloseRead(h.ctx)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				status, reason := websocket.StatusPolicyViolation, "client too slow"
				if h.ctx.Err() != nil {
					status, reason = websocket.StatusGoingAway, "server shutting down"
				}
				_ = c.conn.Close(status, reason)
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				h.drop(c)
				_ = c.conn.CloseNow()
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				h.drop(c)
				_ = c.conn.CloseNow()
				return
			}

		case <-ctx.Done():
			h.drop(c)
			if h.ctx.Err() != nil {
				_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
			} else {
				_ = c.conn.CloseNow()
			}
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast sends msg to every connected client.
func (h *Hub) Broadcast(msg UpdateMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
		return nil
	case <-h.ctx.Done():
		return ErrHubClosed
	}
}

// Reload tells every page to reload, listing the changed paths.
func (h *Hub) Reload(paths ...string) error {
	return h.Broadcast(UpdateMessage{Type: MessageReload, Paths: paths})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Shutdown closes every connection and waits for client goroutines to exit
// or ctx to expire.
func (h *Hub) Shutdown(ctx context.Context) error {
	var err error
	h.shutdownOnce.Do(func() {
		h.cancel()
		<-h.done

		finished := make(chan struct{})
		go func() {
			h.wg.Wait()
			close(finished)
		}()

		select {
		case <-finished:
			h.logger.Debug(ctx, "WebSocket hub shut down")
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}
