package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
)

// ChatSocketHandler owns the chat websocket endpoint: membership-gated
// handshake, presence transitions and the inbound frame dispatch.
type ChatSocketHandler struct {
	hub      *Hub
	registry *Registry
	auth     TokenValidator
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	receipts repositories.ReceiptRepository
}

// NewChatSocketHandler constructs a ChatSocketHandler.
func NewChatSocketHandler(hub *Hub, registry *Registry, auth TokenValidator, chats repositories.ChatRepository, messages repositories.MessageRepository, receipts repositories.ReceiptRepository) *ChatSocketHandler {
	return &ChatSocketHandler{
		hub:      hub,
		registry: registry,
		auth:     auth,
		chats:    chats,
		messages: messages,
		receipts: receipts,
	}
}

// Handle upgrades the connection after validating chat membership, wires
// the connection into the hub and presence registry, and runs the read
// loop until the peer goes away.
func (h *ChatSocketHandler) Handle(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("messaging-service/ws").Start(c.Request.Context(), "ws.chat.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.auth.ValidateToken(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// Membership gate: no chat or no membership means the connection never
	// reaches the hub and nothing is persisted.
	if _, err := h.chats.GetChat(ctx, chatID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
		return
	}
	member, err := h.chats.IsParticipant(ctx, chatID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
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

	topic := ChatTopic(chatID)
	h.hub.Register(conn)
	h.hub.Subscribe(topic, conn.ID)

	observability.IncWSActive("chat")
	publishLifecycle(ctx, "chat", topic, conn, "ws_connect", "")

	// First connection for this user: announce online on every chat topic
	// the user is currently subscribed to. Later devices stay silent.
	if h.registry.Register(userID, conn.ID) {
		for _, t := range h.hub.TopicsFor(h.registry.ConnectionsFor(userID), ChatTopicPrefix) {
			h.hub.Publish(t, NewUserStatusEvent(userID, true), "")
		}
	}

	session := &chatSession{
		conn:     conn,
		chatID:   chatID,
		hub:      h.hub,
		messages: h.messages,
		receipts: h.receipts,
	}

	go func() {
		var closeReason string
		defer func() {
			// Snapshot the user's chat topics before the eviction empties
			// them; the offline announcement goes to the peers left behind.
			topics := h.hub.TopicsFor(h.registry.ConnectionsFor(userID), ChatTopicPrefix)
			h.hub.Unregister(conn.ID)
			last := h.registry.Unregister(userID, conn.ID)
			observability.DecWSActive("chat")
			publishLifecycle(ctx, "chat", topic, conn, "ws_disconnect", closeReason)
			if last {
				for _, t := range topics {
					h.hub.Publish(t, NewUserStatusEvent(userID, false), "")
				}
			}
			conn.Close()
		}()
		for {
			_, data, err := sock.ReadMessage()
			if err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					publishLifecycle(ctx, "chat", topic, conn, "ws_error", closeReason)
				}
				return
			}
			in, err := DecodeInbound(data)
			if err != nil {
				// Unknown or malformed frames are dropped without a reply.
				continue
			}
			session.handleInbound(ctx, in)
		}
	}()
}

// chatSession is the per-connection handler state for an Active chat
// connection. Its methods are pure functions of decoded frames plus the
// store, so they are testable without a live socket.
type chatSession struct {
	conn     *Conn
	chatID   uuid.UUID
	hub      *Hub
	messages repositories.MessageRepository
	receipts repositories.ReceiptRepository
}

func (s *chatSession) handleInbound(ctx context.Context, in Inbound) {
	switch in.Kind {
	case InboundChatMessage:
		s.handleChatMessage(ctx, in)
	case InboundTyping:
		s.handleTyping(in)
	case InboundReadReceipt:
		s.handleReadReceipt(ctx, in)
	case InboundDeleteMessage:
		s.handleDeleteMessage(ctx, in)
	case InboundCallSignal:
		// Call signaling does not belong on a chat topic.
	}
}

// handleChatMessage persists the message plus its receipts and fans it out
// to every subscriber, the sender's own devices included; clients
// de-duplicate by message id.
func (s *chatSession) handleChatMessage(ctx context.Context, in Inbound) {
	if in.Content == "" {
		return
	}
	msg, err := s.messages.CreateMessage(ctx, s.chatID, s.conn.UserID, in.Content, in.ReplyTo)
	if err != nil {
		// Nothing committed, so nothing is announced.
		log.Printf("store message failed: %v", err)
		return
	}
	observability.IncReceiptTransition(string(models.ReceiptSent))
	s.hub.Publish(ChatTopic(s.chatID), NewChatMessageEvent(msg), "")
}

// handleTyping relays the indicator to everyone except the typist's own
// connection.
func (s *chatSession) handleTyping(in Inbound) {
	s.hub.Publish(ChatTopic(s.chatID), NewTypingIndicatorEvent(s.conn.UserID, in.IsTyping), s.conn.ID)
}

// handleReadReceipt advances the reader's receipt and announces the read.
// A receipt that is missing or already read produces no event.
func (s *chatSession) handleReadReceipt(ctx context.Context, in Inbound) {
	if in.MessageID == uuid.Nil {
		return
	}
	advanced, err := s.receipts.MarkRead(ctx, in.MessageID, s.conn.UserID)
	if err != nil {
		log.Printf("mark read failed: %v", err)
		return
	}
	if !advanced {
		return
	}
	observability.IncReceiptTransition(string(models.ReceiptRead))
	s.hub.Publish(ChatTopic(s.chatID), NewReadReceiptEvent(in.MessageID, s.conn.UserID), "")
}

// handleDeleteMessage applies a deletion requested over the socket. Only
// the sender may delete, delete-for-everyone must be inside the window,
// and every rejection is silent: no mutation, no event.
func (s *chatSession) handleDeleteMessage(ctx context.Context, in Inbound) {
	if in.MessageID == uuid.Nil {
		return
	}
	msg, err := s.messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return
	}
	if msg.SenderID != s.conn.UserID || msg.ChatID != s.chatID {
		return
	}

	if in.DeleteForEveryone {
		if !models.CanDeleteForEveryone(msg.CreatedAt, time.Now()) {
			return
		}
		if err := s.messages.DeleteForEveryone(ctx, in.MessageID, s.conn.UserID); err != nil {
			return
		}
	} else {
		if err := s.messages.DeleteForUser(ctx, in.MessageID, s.conn.UserID); err != nil {
			return
		}
	}
	s.hub.Publish(ChatTopic(s.chatID), NewMessageDeletedEvent(in.MessageID, in.DeleteForEveryone), "")
}
