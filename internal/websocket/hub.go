package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub maintains the set of active WebSocket clients, grouped into one room
// per household. Todo events only ever reach clients in the same room.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[int64]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[int64]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub. The client is not in any room until it
// joins one.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and its room, and closes its send
// channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		h.leaveRoomLocked(c)
		close(c.send)
	}
	h.mu.Unlock()
}

// JoinRoom places the client in its household's room. Joining twice is a
// no-op.
func (h *Hub) JoinRoom(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.householdID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.householdID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
}

// LeaveRoom removes the client from its household's room.
func (h *Hub) LeaveRoom(c *Client) {
	h.mu.Lock()
	h.leaveRoomLocked(c)
	h.mu.Unlock()
}

func (h *Hub) leaveRoomLocked(c *Client) {
	room, ok := h.rooms[c.householdID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.householdID)
	}
}

// BroadcastToRoom sends an event to every client in the household's room,
// including the sender.
func (h *Hub) BroadcastToRoom(householdID int64, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[householdID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full; drop the message rather than block
		}
	}
}

// Broadcast sends an event to all connected clients regardless of room.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomCount returns the number of clients in the household's room.
func (h *Hub) RoomCount(householdID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[householdID])
}
