package ws

import (
	"sync"
	"time"

	"estatedesk_backend/internal/logger"
)

// Event is the payload pushed over a live connection. It is a hint, not
// data: on receipt clients re-fetch their inbox over HTTP.
type Event struct {
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

// Conn is one live connection owned by a user. A user may hold several
// at once (multiple tabs or devices); the hub keys by connection id.
type Conn struct {
	ID     string
	UserID string
	Send   chan Event
}

// NewConn builds a registry entry with a buffered send channel. The
// buffer is the bounded write attempt: a consumer that falls this far
// behind is treated as dead.
func NewConn(id, userID string, buffer int) *Conn {
	return &Conn{
		ID:     id,
		UserID: userID,
		Send:   make(chan Event, buffer),
	}
}

// Hub is the in-process registry of live connections. State is
// ephemeral: nothing survives a restart, clients reconcile over HTTP
// after reconnecting.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
	}
}

func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	h.conns[c.ID] = c
	total := len(h.conns)
	h.mu.Unlock()
	logger.Debug("connection registered", "conn_id", c.ID, "user_id", c.UserID, "total", total)
}

// Unregister removes a connection and closes its send channel. Safe to
// call for unknown ids and safe to call twice; the close happens only
// on the call that actually removes the entry.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	if ok {
		delete(h.conns, connID)
		close(c.Send)
	}
	total := len(h.conns)
	h.mu.Unlock()
	if ok {
		logger.Debug("connection unregistered", "conn_id", connID, "total", total)
	}
}

// Snapshot returns the current connections. The slice is a copy;
// iterating it holds no lock.
func (h *Hub) Snapshot() []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	return conns
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast writes one event to every connection whose user is in
// recipientIDs, or to all connections when recipientIDs is nil. Each
// write is a non-blocking channel send; a connection whose buffer is
// full is dropped from the registry instead of stalling the rest.
// Fire-and-forget: there is no delivery guarantee for clients that are
// not currently connected.
func (h *Hub) Broadcast(eventType string, recipientIDs []string) {
	var recipients map[string]bool
	if recipientIDs != nil {
		recipients = make(map[string]bool, len(recipientIDs))
		for _, id := range recipientIDs {
			recipients[id] = true
		}
	}

	event := Event{Event: eventType, At: time.Now()}

	// Channel sends stay under the read lock so they cannot interleave
	// with the close in Unregister, which needs the write lock.
	var stale []string
	h.mu.RLock()
	for _, c := range h.conns {
		if recipients != nil && !recipients[c.UserID] {
			continue
		}
		select {
		case c.Send <- event:
		default:
			stale = append(stale, c.ID)
		}
	}
	h.mu.RUnlock()

	for _, connID := range stale {
		logger.Warn("dropping slow connection", "conn_id", connID, "event", eventType)
		h.Unregister(connID)
	}
}

// Shutdown closes every connection and clears the registry. Nothing is
// flushed to storage.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.conns {
		close(c.Send)
		delete(h.conns, id)
	}
}
