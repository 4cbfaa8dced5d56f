package services

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"recruitsite-backend-go/internal/store"
)

// ChangeEvent tells connected pages that a content document was rewritten.
type ChangeEvent struct {
	Document  string `json:"document"`
	UpdatedAt string `json:"updatedAt"`
}

// ChangeHub fans document change events out to websocket clients.
type ChangeHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan ChangeEvent
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan ChangeEvent, 16),
	}
}

func (h *ChangeHub) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.ch:
			h.send(event)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *ChangeHub) send(event ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Notify is the store hook: it queues an event and drops it when the queue is full.
func (h *ChangeHub) Notify(doc store.DocType) {
	h.Broadcast(ChangeEvent{Document: string(doc), UpdatedAt: time.Now().UTC().Format(time.RFC3339)})
}

func (h *ChangeHub) Broadcast(event ChangeEvent) {
	select {
	case h.ch <- event:
	default:
	}
}

func (h *ChangeHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *ChangeHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *ChangeHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ChangeHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
