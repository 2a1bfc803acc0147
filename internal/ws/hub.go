package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/laporinapp/laporin/internal/model"
)

// Broadcaster is the room fan-out surface event handlers talk to. The
// in-process Hub is the only implementation today; a distributed backbone
// (e.g. Redis Pub/Sub between gateway instances) can substitute here without
// touching event-handling logic.
type Broadcaster interface {
	// Publish sends an event to every connection in the room
	Publish(room string, event *model.WSEvent)
	// PublishExcept sends an event to every connection in the room except the
	// one identified by socketID
	PublishExcept(room, socketID string, event *model.WSEvent)
}

// Hub manages all WebSocket connections and their room memberships. Rooms are
// keyed by chat id; membership is transport-layer state only and vanishes
// with the connection.
type Hub struct {
	mu sync.RWMutex

	// room name -> set of member connections
	rooms map[string]map[*Client]bool

	// all live connections
	clients map[*Client]bool

	// Channels for registering/unregistering clients
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new WebSocket Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the Hub's main event loop
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	log.Printf("✅ Socket connected: user=%s socket=%s (total: %d)", client.UserID, client.SocketID, len(h.clients))
}

// removeClient drops a connection and, implicitly, all its room memberships
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	for room := range client.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	client.rooms = make(map[string]bool)

	close(client.send)
	log.Printf("❌ Socket disconnected: user=%s socket=%s", client.UserID, client.SocketID)
}

// JoinRoom adds a connection to a room, creating the room on first join
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

// LeaveRoom removes a connection from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// Publish implements Broadcaster
func (h *Hub) Publish(room string, event *model.WSEvent) {
	h.publish(room, "", event)
}

// PublishExcept implements Broadcaster
func (h *Hub) PublishExcept(room, socketID string, event *model.WSEvent) {
	h.publish(room, socketID, event)
}

func (h *Hub) publish(room, exceptSocketID string, event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event for room %s: %v", room, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		if exceptSocketID != "" && client.SocketID == exceptSocketID {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full; drop this event for it rather
			// than block the whole room
			log.Printf("⚠️  Dropping event for slow socket %s in room %s", client.SocketID, room)
		}
	}
}

// ConnectionsCount returns the number of live connections (health endpoint)
func (h *Hub) ConnectionsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ActiveRoomsCount returns the number of rooms with at least one member
func (h *Hub) ActiveRoomsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// RoomSize returns how many connections are in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
