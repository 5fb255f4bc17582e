package websocket

import (
	"time"

	"animedrop/internal/logging"

	"github.com/gorilla/websocket"
)

// ping pong (2-way heartbeat) keeps idle notification sockets alive
const (
	WriteWait      = 10 * time.Second    // max time to write a frame to the peer
	PongWait       = 60 * time.Second    // no pong within this window = dead connection
	PingPeriod     = (PongWait * 9) / 10 // must stay below PongWait
	MaxMessageSize = 512                 // clients only ever send small control frames
	sendBuffer     = 32
)

// Client is one websocket connection of an authenticated user.
type Client struct {
	ID          string
	UserID      string
	UserName    string
	Conn        *websocket.Conn
	SendChannel chan []byte // outbound frames, closed by the hub
	Hub         *Hub
}

func NewClient(id, userID, userName string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		UserName:    userName,
		Conn:        conn,
		SendChannel: make(chan []byte, sendBuffer),
		Hub:         hub,
	}
}

// ReadPump consumes client frames until the connection drops, then
// unregisters the client. Only ping frames are meaningful.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Str("user_id", c.UserID).Msg("websocket closed unexpectedly")
			}
			return
		}

		msg, err := MessageFromJSON(data)
		if err != nil || msg.Type != TypePing {
			continue
		}
		if err := c.SendMessage(NewMessage(TypePong, nil)); err != nil {
			logging.Warn().Err(err).Str("user_id", c.UserID).Msg("failed to queue pong")
		}
	}
}

// WritePump drains SendChannel to the socket and pings the peer every
// PingPeriod. It exits when the hub closes SendChannel or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.SendChannel:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Str("user_id", c.UserID).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues msg for this client only. It never blocks.
func (c *Client) SendMessage(msg *Message) error {
	payload, err := msg.ToJSON()
	if err != nil {
		return err
	}
	select {
	case c.SendChannel <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Start launches both pumps.
func (c *Client) Start() {
	go c.WritePump()
	go c.ReadPump()
}
