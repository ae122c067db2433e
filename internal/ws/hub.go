// Package ws pushes order lifecycle events to connected dashboards. Clients
// subscribe per restaurant; the hub fans each event out to that room only.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event type names broadcast by the order services.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderStatus  = "order.status"
)

// Event is one broadcast message.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type restaurantEvent struct {
	RestaurantID uuid.UUID
	Event        Event
}

// Hub routes events to clients grouped by restaurant.
type Hub struct {
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *restaurantEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *restaurantEvent, 256),
	}
}

// Run is the hub's main loop. Start it once, as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.restaurantID] == nil {
				h.rooms[client.restaurantID] = make(map[*Client]bool)
			}
			h.rooms[client.restaurantID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			message, err := json.Marshal(ev.Event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.rooms[ev.RestaurantID] {
				select {
				case client.send <- message:
				default:
					// Slow consumer; cut it loose rather than block the room.
					h.dropLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropLocked removes a client and deletes its room when empty. Caller holds mu.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.rooms[client.restaurantID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.restaurantID)
	}
}

// Broadcast sends an event to every client watching a restaurant.
func (h *Hub) Broadcast(restaurantID uuid.UUID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.broadcast <- &restaurantEvent{
		RestaurantID: restaurantID,
		Event:        Event{Type: eventType, Payload: raw},
	}
}
