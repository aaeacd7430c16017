package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"messaging-service/internal/observability"
)

// TokenValidator verifies a bearer token and resolves the user id.
type TokenValidator interface {
	ValidateToken(token string) (int, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// bearerToken pulls the raw token from the Authorization header or, for
// browser websocket clients that cannot set headers, from ?token=.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// publishLifecycle reports a ws_connect/ws_disconnect/ws_error event to the
// event bus and the metrics registry.
func publishLifecycle(ctx context.Context, kind, topic string, conn *Conn, event, reason string) {
	observability.IncWSEvent(kind, event)
	payload := observability.WSEventPayload(observability.WSEventInfo{
		Kind:       kind,
		Topic:      topic,
		Event:      event,
		ConnID:     conn.ID,
		DurationMS: time.Since(conn.ConnectedAt).Milliseconds(),
		Reason:     reason,
		UserID:     conn.UserID,
		DeviceID:   conn.DeviceID,
		IP:         conn.IP,
	})
	_ = observability.PublishEvent(ctx, wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload:   payload,
	}, observability.BuildHeaders(conn.RequestID, conn.TraceID))
}
