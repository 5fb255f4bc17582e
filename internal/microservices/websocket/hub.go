package websocket

import (
	"errors"
	"sync"

	"animedrop/internal/logging"
	"animedrop/internal/metrics"
	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/models"
)

var (
	ErrHubClosed      = errors.New("websocket hub is closed")
	ErrSendBufferFull = errors.New("websocket send buffer full")
)

// Hub tracks the live notification sockets of every connected user and
// pushes newly stored notifications to them. It satisfies service.Publisher.
//
// A client's SendChannel is closed exactly once, by unregister, while the
// hub lock is held, so Publish can never write to a closed channel.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]*Room // userID -> that user's connections
	closed bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

func (h *Hub) register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}

	room, ok := h.rooms[c.UserID]
	if !ok {
		room = NewRoom(c.UserID)
		h.rooms[c.UserID] = room
	}
	room.AddClient(c)
	metrics.WebsocketConnections.Inc()

	logging.Info().
		Str("user_id", c.UserID).
		Str("client_id", c.ID).
		Int("user_connections", room.GetUserCount()).
		Msg("websocket client connected")
	return nil
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.UserID]
	if !ok || !room.RemoveClient(c) {
		return
	}
	close(c.SendChannel)
	metrics.WebsocketConnections.Dec()
	if room.GetUserCount() == 0 {
		delete(h.rooms, c.UserID)
	}

	logging.Info().Str("user_id", c.UserID).Str("client_id", c.ID).Msg("websocket client disconnected")
}

// Publish pushes n to every open connection of its recipient. Users with no
// open connection are skipped.
func (h *Hub) Publish(n *models.Notification) {
	if n == nil {
		return
	}
	msg := NewMessage(TypeNotification, dto.FromModelToNotificationResponse(n))
	h.SendToUser(n.RecipientID, msg)
}

// SendToUser delivers msg to all of userID's connections.
func (h *Hub) SendToUser(userID string, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[userID]
	if !ok {
		return
	}
	payload, err := msg.ToJSON()
	if err != nil {
		logging.Error().Err(err).Str("type", string(msg.Type)).Msg("failed to encode websocket message")
		return
	}
	room.Broadcast(payload)
}

// ClientCount returns the number of open connections across all users.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, room := range h.rooms {
		total += room.GetUserCount()
	}
	return total
}

// UserClientCount returns the number of open connections of userID.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[userID]; ok {
		return room.GetUserCount()
	}
	return 0
}

// Close rejects new clients and closes every open connection. The pumps then
// unregister themselves.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var clients []*Client
	for _, room := range h.rooms {
		clients = append(clients, room.GetClients()...)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	}
	logging.Info().Int("clients", len(clients)).Msg("websocket hub closed")
}
