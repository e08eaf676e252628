// Package stream pushes bet lifecycle updates to connected websocket
// clients.
package stream

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Update is one event pushed to all connected clients
type Update struct {
	Type    string      `json:"type"` // "blueprints", "bet_placed", "settlement"
	UserID  string      `json:"user_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// Hub fans updates out to websocket clients. Slow clients are dropped
// rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	logger     *logrus.Logger
	upgrader   websocket.Upgrader
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run processes registration and broadcast events until the context
// backing the process shuts the hub down with Close.
func (h *Hub) Run() {
	for {
		select {
		case c, ok := <-h.register:
			if !ok {
				for c := range h.clients {
					close(c.send)
				}
				return
			}
			h.clients[c] = true
			metrics.StreamClients.Set(float64(len(h.clients)))
		case c := <-h.unregister:
			if _, found := h.clients[c]; found {
				delete(h.clients, c)
				close(c.send)
				metrics.StreamClients.Set(float64(len(h.clients)))
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			metrics.StreamClients.Set(float64(len(h.clients)))
		}
	}
}

// Close stops the run loop and disconnects every client
func (h *Hub) Close() {
	close(h.register)
}

// Publish broadcasts an update to every connected client. Marshal
// failures are logged and dropped.
func (h *Hub) Publish(update Update) {
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to marshal stream update")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("Stream broadcast buffer full, dropping update")
	}
}

// ServeWS upgrades an HTTP request into a streaming connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register <- c

	go c.writeLoop()
	go c.readLoop()
}

// readLoop drains inbound frames so pings are answered; clients never
// send application data.
func (c *client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
