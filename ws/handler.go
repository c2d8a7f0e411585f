package ws

import (
	"net/http"

	"estatedesk_backend/internal/logger"
	"estatedesk_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by the auth token, not the Origin header.
		return true
	},
}

// StreamHandler upgrades /notifications/stream requests and wires the
// resulting socket into the hub.
type StreamHandler struct {
	Hub *Hub
}

func NewStreamHandler(hub *Hub) *StreamHandler {
	return &StreamHandler{Hub: hub}
}

// Stream opens the long-lived push connection for the authenticated
// user. Registration is keyed by a fresh connection id so the same
// user can hold several streams at once.
func (h *StreamHandler) Stream(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}

	conn := NewConn(uuid.NewString(), userID, sendBuffer)
	h.Hub.Register(conn)

	client := newClient(h.Hub, conn, sock)
	go client.readPump()
	go client.writePump()
}
