package websocket

import (
	"sync"

	"animedrop/internal/logging"
)

// Room groups every open connection of one user, so a notification reaches
// all of that user's tabs and devices.
type Room struct {
	UserID  string
	Clients map[string]*Client // clientID -> client
	mu      sync.RWMutex
}

func NewRoom(userID string) *Room {
	return &Room{
		UserID:  userID,
		Clients: make(map[string]*Client),
	}
}

func (r *Room) AddClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clients[c.ID] = c
}

// RemoveClient reports whether c was a member.
func (r *Room) RemoveClient(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Clients[c.ID]; !ok {
		return false
	}
	delete(r.Clients, c.ID)
	return true
}

// Broadcast queues payload on every client. A client whose buffer is full
// misses the frame; it can still catch up through the REST listing.
func (r *Room) Broadcast(payload []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.Clients {
		select {
		case c.SendChannel <- payload:
		default:
			logging.Warn().
				Str("user_id", r.UserID).
				Str("client_id", c.ID).
				Msg("websocket send buffer full, dropping frame")
		}
	}
}

func (r *Room) GetUserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}

// GetClients returns a snapshot of the room's clients.
func (r *Room) GetClients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.Clients))
	for _, client := range r.Clients {
		clients = append(clients, client)
	}
	return clients
}
