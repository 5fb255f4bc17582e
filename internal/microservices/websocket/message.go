package websocket

import (
	"encoding/json"
	"time"
)

// MessageType tags every frame sent over a notification socket.
type MessageType string

const (
	TypeNotification MessageType = "notification" // a freshly stored notification
	TypeSystem       MessageType = "system"       // connection level notices
	TypePing         MessageType = "ping"         // client keepalive
	TypePong         MessageType = "pong"         // reply to TypePing
)

// Message is the JSON frame exchanged with clients.
type Message struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMessage(msgType MessageType, data any) *Message {
	return &Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// NewSystemMessage wraps a plain text notice.
func NewSystemMessage(content string) *Message {
	return NewMessage(TypeSystem, map[string]string{"message": content})
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON decodes a client frame. Data is left as generic JSON.
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
