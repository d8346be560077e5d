package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ReloadEvent tells connected browsers that the tree changed.
type ReloadEvent struct {
	Kind  string `json:"kind"` // "reload"
	Pages int    `json:"pages"`
	At    int64  `json:"at"` // unix milliseconds
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the live-reload websocket clients and broadcasts reload
// events to them.
type Hub struct {
	logger     *zap.Logger
	upgrader   websocket.Upgrader
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run handles client registration and broadcasting until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			h.logger.Info("reload hub shutting down")
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Debug("reload client connected")
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Debug("reload client disconnected")
		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastReload notifies every client that pages changed.
func (h *Hub) BroadcastReload(pages int) {
	payload, err := json.Marshal(ReloadEvent{
		Kind:  "reload",
		Pages: pages,
		At:    time.Now().UnixMilli(),
	})
	if err != nil {
		h.logger.Error("failed to serialize reload event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("reload broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWS upgrades the connection and pumps reload events to it.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade reload connection", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 4),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- c:
			case <-h.done:
			}
			conn.Close()
		}()
		for message := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}
	}()

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
