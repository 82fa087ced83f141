// Package ws pushes coordination and execution events to connected
// dashboard clients over WebSocket.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types published by the pipeline.
const (
	EventCoordinationComplete = "coordination_complete"
	EventExecutionStarted     = "execution_started"
	EventExecutionFinished    = "execution_finished"
	EventExecutionApproved    = "execution_approved"
	EventExecutionCancelled   = "execution_cancelled"
	EventSLOEvaluated         = "slo_evaluated"
)

// Event is the envelope sent to every connected client.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
}

// Hub fans events out to all connected clients. Clients that fall behind
// are disconnected rather than allowed to block the broadcast.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: map[*client]struct{}{}}
}

// Broadcast queues an event for every connected client.
func (h *Hub) Broadcast(eventType string, data any) {
	event := Event{Type: eventType, Data: data, Timestamp: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			// Slow consumer; drop it.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and streams events until the client
// disconnects. It blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade to websocket")
		return
	}

	c := &client{conn: conn, send: make(chan Event, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Debug().Str("client", conn.RemoteAddr().String()).Msg("WebSocket client connected")

	go c.writeLoop()
	c.readLoop(h)
}

func (c *client) writeLoop() {
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			log.Debug().Err(err).Msg("Failed to write websocket event")
			return
		}
	}
}

// readLoop drains client messages, answering pings, until the connection
// closes.
func (c *client) readLoop(h *Hub) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
		if msg.Type == "ping" {
			select {
			case c.send <- Event{Type: "pong", Timestamp: time.Now()}:
			default:
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
