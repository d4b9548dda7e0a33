// Package feed pushes incident changes to connected consoles over a websocket. Each
// subscriber only receives incidents its own scope can see.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/logging"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/visibility"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
)

// Event is one message on the feed
type Event struct {
	Type      string               `json:"type"`
	Incident  models.EmergencyCase `json:"incident"`
	Timestamp time.Time            `json:"timestamp"`
}

// Client is one connected console
type Client struct {
	ID    string
	Scope visibility.Scope
	Send  chan []byte
}

// Hub tracks subscribers and fans events out to them
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	PingInterval time.Duration
	upgrader     websocket.Upgrader
	log          *zap.SugaredLogger
}

// NewHub creates an empty hub
func NewHub(pingInterval time.Duration) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		clients:      map[*Client]struct{}{},
		PingInterval: pingInterval,
		log:          logging.Named("feed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Register adds a subscriber
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Unregister removes a subscriber and closes its channel
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify delivers an incident change to every subscriber allowed to see it. Slow
// subscribers miss events rather than block the caller.
func (h *Hub) Notify(kind string, inc models.EmergencyCase) {
	data, err := json.Marshal(Event{Type: kind, Incident: inc, Timestamp: time.Now().UTC()})
	if err != nil {
		h.log.Errorw("failed to marshal feed event", "type", kind, "incident", inc.ID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.Scope.CanSeeIncident(&inc) {
			continue
		}
		select {
		case c.Send <- data:
		default:
			h.log.Warnw("feed subscriber is behind, event dropped", "client", c.ID, "type", kind)
		}
	}
}

// ServeHTTP upgrades an authenticated request and streams events until the peer leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := identity.FromContext(r.Context())
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "user", user.ID, "error", err)
		return
	}

	c := &Client{
		ID:    uuid.NewString(),
		Scope: visibility.Resolve(user),
		Send:  make(chan []byte, sendBuffer),
	}
	h.Register(c)
	h.log.Infow("feed subscriber connected", "client", c.ID, "user", user.ID, "scope", c.Scope.Group)

	go h.writePump(c, conn)
	h.readPump(c, conn)
}

// readPump discards inbound frames; it exists to notice the peer going away
func (h *Hub) readPump(c *Client, conn *websocket.Conn) {
	defer func() {
		h.Unregister(c)
		conn.Close()
		h.log.Infow("feed subscriber disconnected", "client", c.ID)
	}()
	conn.SetReadDeadline(time.Now().Add(2 * h.PingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * h.PingInterval))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(h.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
