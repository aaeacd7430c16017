package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
)

// CallSocketHandler relays WebRTC signaling between the members of a call
// topic. Payloads pass through verbatim; the relay never inspects them.
type CallSocketHandler struct {
	hub   *Hub
	auth  TokenValidator
	calls repositories.CallRepository
}

// NewCallSocketHandler constructs a CallSocketHandler.
func NewCallSocketHandler(hub *Hub, auth TokenValidator, calls repositories.CallRepository) *CallSocketHandler {
	return &CallSocketHandler{hub: hub, auth: auth, calls: calls}
}

// Handle upgrades the connection for a call room and forwards signaling
// frames until the peer disconnects.
func (h *CallSocketHandler) Handle(c *gin.Context) {
	callID, err := uuid.Parse(c.Param("call_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}

	ctx, span := otel.Tracer("messaging-service/ws").Start(c.Request.Context(), "ws.call.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.auth.ValidateToken(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	call, err := h.calls.GetCall(ctx, callID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}
	if call.CallerID != userID && call.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a call participant"})
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
	conn.TraceID = span.SpanContext().TraceID().String()

	topic := CallTopic(callID)
	h.hub.Register(conn)
	h.hub.Subscribe(topic, conn.ID)

	observability.IncWSActive("call")
	publishLifecycle(ctx, "call", topic, conn, "ws_connect", "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.Unregister(conn.ID)
			observability.DecWSActive("call")
			publishLifecycle(ctx, "call", topic, conn, "ws_disconnect", closeReason)
			// Everyone still in the room sees the departure.
			h.hub.Publish(topic, NewUserLeftEvent(userID), "")
			conn.Close()
		}()
		for {
			_, data, err := sock.ReadMessage()
			if err != nil {
				closeReason = err.Error()
				return
			}
			in, err := DecodeInbound(data)
			if err != nil || in.Kind != InboundCallSignal {
				continue
			}
			// Forward to everyone but the sender.
			h.hub.Publish(topic, NewCallSignalEvent(in.SignalType, userID, in.Data), conn.ID)
		}
	}()
}
