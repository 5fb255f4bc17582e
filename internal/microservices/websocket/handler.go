package websocket

import (
	"net/http"
	"slices"

	"animedrop/internal/logging"
	"animedrop/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NewUpgrader accepts same-origin requests, requests without an Origin
// header (non-browser clients such as the CLI) and the listed origins.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, "*") {
				return true
			}
			return slices.Contains(allowedOrigins, origin) || origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
}

// WSHandler upgrades an authenticated request to a notification socket.
// It must run behind AuthMiddleware.
func WSHandler(hub *Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		userName := c.GetString(middleware.ContextUsername)

		// Upgrade writes its own error response on failure
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := NewClient(uuid.NewString(), userID, userName, conn, hub)
		if err := hub.register(client); err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			_ = conn.Close()
			return
		}

		if err := client.SendMessage(NewSystemMessage("connected")); err != nil {
			logging.Warn().Err(err).Str("user_id", userID).Msg("failed to queue welcome frame")
		}
		client.Start()
	}
}
