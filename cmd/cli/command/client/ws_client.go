package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"animedrop/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

// wsFrame mirrors the server's notification socket frame.
type wsFrame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NotificationsURL turns an API base URL into the notification socket URL.
func NotificationsURL(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported API scheme %q", u.Scheme)
	}
	u.Path += "/notifications/ws"
	return u.String(), nil
}

// ListenNotifications prints live notifications to w until ctx is done or
// the server closes the socket.
func ListenNotifications(ctx context.Context, apiURL, token string, w io.Writer) error {
	wsURL, err := NotificationsURL(apiURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Add("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return &APIError{StatusCode: resp.StatusCode, Message: "session expired, please login again"}
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	// unblock ReadJSON on cancellation
	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		printFrame(w, frame)
	}
}

func printFrame(w io.Writer, frame wsFrame) {
	switch frame.Type {
	case "notification":
		var n dto.NotificationResponse
		if err := json.Unmarshal(frame.Data, &n); err != nil {
			return
		}
		color.New(color.FgCyan).Fprintf(w, "[%s] %s", n.Type, n.Message)
		if n.Link != "" {
			fmt.Fprintf(w, " (%s)", n.Link)
		}
		fmt.Fprintln(w)
	case "system":
		var body struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(frame.Data, &body)
		color.New(color.FgYellow).Fprintf(w, "* %s\n", body.Message)
	}
}
