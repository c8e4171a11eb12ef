package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"StockPulse/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// envelope is the frame pushed to WebSocket clients.
type envelope struct {
	Type    string              `json:"type"`
	Data    predictionsResponse `json:"data"`
	Initial bool                `json:"initial,omitempty"`
}

// Hub fans finished prediction batches out to WebSocket clients. New clients
// immediately receive the last published batch.
type Hub struct {
	upgrader websocket.Upgrader
	logger   zerolog.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	last    *model.Batch
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	once sync.Once
}

// NewHub creates a hub. An empty allowedOrigins accepts any origin.
func NewHub(allowedOrigins []string, logger zerolog.Logger) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	h := &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowed) == 0 || allowed[origin]
		},
	}
	return h
}

// Publish sends b to every connected client. Slow clients drop the frame.
func (h *Hub) Publish(b *model.Batch) {
	if b == nil {
		return
	}
	msg, err := json.Marshal(envelope{Type: "predictions", Data: newPredictionsResponse(b, false)})
	if err != nil {
		h.logger.Error().Err(err).Msg("encode ws frame")
		return
	}

	h.mu.Lock()
	h.last = b
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn().Msg("ws client too slow, frame dropped")
		}
	}
	h.mu.Unlock()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade")
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer), hub: h}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	if h.last != nil {
		if msg, err := json.Marshal(envelope{Type: "predictions", Data: newPredictionsResponse(h.last, false), Initial: true}); err == nil {
			c.send <- msg
		}
	}
	h.mu.Unlock()

	h.logger.Info().Int("clients", count).Msg("ws client connected")
	go c.writePump()
	go c.readPump()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *wsClient) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		close(c.send)
		h.mu.Unlock()
	})
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// readPump only services control frames; clients don't send commands.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
		c.hub.logger.Info().Msg("ws client disconnected")
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
