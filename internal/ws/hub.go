package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is anything that can receive one serialized notification.
type Client interface {
	Send(b []byte) error
}

// Hub tracks the set of live realtime connections and fans notifications out
// to all of them. Broadcast is global: there is no tenant, topic or room
// partitioning.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[Client]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[Client]struct{}),
	}
}

func (h *Hub) Register(c Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Broadcast serializes v once and sends it to every tracked client.
// A client whose send fails is pruned and skipped; the broadcast itself
// never errors.
func (h *Hub) Broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("broadcast marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	snapshot := make([]Client, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		if err := c.Send(b); err != nil {
			h.Unregister(c)
		}
	}
}

// ServeHTTP upgrades the request and tracks the socket until it closes.
// Inbound client messages carry no protocol; they are only logged.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn}
	h.Register(c)
	h.log.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	defer func() {
		h.Unregister(c)
		_ = conn.Close()
		h.log.Info("client disconnected", zap.String("remote", conn.RemoteAddr().String()))
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.log.Info("client message", zap.ByteString("message", msg))
	}
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla permits one concurrent writer per conn
}

func (c *wsClient) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}
