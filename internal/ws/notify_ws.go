package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/observability"
)

// NotifySocketHandler attaches a connection to the user's personal
// notification topic. The client never sends application frames here;
// inbound data is drained and discarded.
type NotifySocketHandler struct {
	hub  *Hub
	auth TokenValidator
}

// NewNotifySocketHandler constructs a NotifySocketHandler.
func NewNotifySocketHandler(hub *Hub, auth TokenValidator) *NotifySocketHandler {
	return &NotifySocketHandler{hub: hub, auth: auth}
}

// Handle upgrades the connection and subscribes it to user:<id>.
func (h *NotifySocketHandler) Handle(c *gin.Context) {
	userID, err := h.auth.ValidateToken(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	conn := NewConn(userID, sock)
	conn.DeviceID = observability.DeviceIDFromRequest(c.Request)
	conn.IP = observability.IPFromRequest(c.Request)
	conn.RequestID = observability.RequestIDFromRequest(c.Request)

	topic := UserTopic(userID)
	h.hub.Register(conn)
	h.hub.Subscribe(topic, conn.ID)

	observability.IncWSActive("notify")
	publishLifecycle(c.Request.Context(), "notify", topic, conn, "ws_connect", "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.Unregister(conn.ID)
			observability.DecWSActive("notify")
			publishLifecycle(c.Request.Context(), "notify", topic, conn, "ws_disconnect", closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := sock.ReadMessage(); err != nil {
				closeReason = err.Error()
				return
			}
		}
	}()
}
