package server

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// changeNotice is the frame pushed to subscribers when a collection changes.
// It carries no row data; clients refetch the full snapshot themselves.
type changeNotice struct {
	Collection string `json:"collection"`
}

// Hub tracks websocket subscribers per collection and fans out change
// notifications after each successful write.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*websocket.Conn]bool)}
}

func (h *Hub) Add(collection string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*websocket.Conn]bool)
	}
	h.subs[collection][conn] = true
}

func (h *Hub) Remove(collection string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[collection], conn)
}

// Broadcast notifies every subscriber of a collection. Writes happen under
// the hub lock: websocket connections allow only one concurrent writer. A
// connection that fails to take the write is dropped.
func (h *Hub) Broadcast(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	notice := changeNotice{Collection: collection}
	for conn := range h.subs[collection] {
		if err := conn.WriteJSON(notice); err != nil {
			zap.L().Debug("Dropping unresponsive subscriber",
				zap.String("collection", collection), zap.Error(err))
			_ = conn.Close()
			delete(h.subs[collection], conn)
		}
	}
}

// CloseAll tears down every subscriber connection, used at shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for collection, conns := range h.subs {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subs, collection)
	}
}
