// Package floorfeed fans floor events out to connected websocket clients,
// one audience per casino.
package floorfeed

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/casino-floor/utils"
)

// Event types
const (
	EventSessionOpened  = "table_session_opened"
	EventRundownStarted = "table_session_rundown"
	EventSessionClosed  = "table_session_closed"
	EventFloorStats     = "floor_stats"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub uses.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	casinoID string
	role     string
}

// Hub holds the connected clients. The zero value is not usable; call NewHub.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]client)}
}

// Register adds a connection to its casino's audience.
func (h *Hub) Register(conn Conn, casinoID, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = client{casinoID: casinoID, role: role}
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Count returns the number of connections for a casino.
func (h *Hub) Count(casinoID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.clients {
		if c.casinoID == casinoID {
			n++
		}
	}
	return n
}

// Broadcast sends msg to every client of casinoID. Clients that fail to
// receive are dropped. It returns the number of deliveries.
func (h *Hub) Broadcast(casinoID string, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling floor message: %v", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for conn, c := range h.clients {
		if c.casinoID != casinoID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Dropping %s client after write error: %v", c.role, err)
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		delivered++
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients of casino %s", msg.Event, delivered, casinoID)
	return delivered
}
