package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zizouhuweidi/quizzical/internal/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBuffer      = 256
	broadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	ID       string
	Hub      *Hub
	Conn     *websocket.Conn
	Category string // empty means every category
	Send     chan []byte
}

// wants reports whether the client follows category
func (c *Client) wants(category string) bool {
	return c.Category == "" || c.Category == category
}

// Hub maintains the set of active clients and relays content events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Events to relay
	broadcast chan events.Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed once Run has returned
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan events.Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub and blocks until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.remove(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Debug("Feed client connected", "client_id", client.ID, "category", client.Category)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// remove drops client and closes its send channel. Callers hold the write lock.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		slog.Debug("Feed client disconnected", "client_id", client.ID)
	}
}

func (h *Hub) deliver(event events.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("Error marshaling feed event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.wants(event.Category) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			// slow consumer
			h.remove(client)
		}
	}
}

// Broadcast queues event for every client following its category. Events are
// dropped when the queue is full.
func (h *Hub) Broadcast(event events.Event) {
	select {
	case h.broadcast <- event:
	default:
		slog.Warn("Feed queue full, dropping event", "type", event.Type, "category", event.Category)
	}
}

// ClientCount returns the number of connected clients following category.
// An empty category counts every client.
func (h *Hub) ClientCount(category string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if category == "" {
		return len(h.clients)
	}

	count := 0
	for client := range h.clients {
		if client.Category == category {
			count++
		}
	}
	return count
}

// Serve upgrades the request to a websocket connection following category
// and starts its pumps
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, category string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:       uuid.NewString(),
		Hub:      h,
		Conn:     conn,
		Category: category,
		Send:     make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return errors.New("feed is shut down")
	}

	go client.WritePump()
	go client.ReadPump()

	return nil
}

// ReadPump drains the connection so control frames are handled. The feed is
// one-way; anything the peer sends is discarded.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Feed connection closed unexpectedly", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

// WritePump pumps events from the hub to the websocket connection, one frame
// per event
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
