package ws

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"messaging-service/internal/models"
)

// ErrUnknownInbound marks a frame whose type is outside the protocol.
// Callers drop such frames without an error reply.
var ErrUnknownInbound = errors.New("unknown inbound event type")

// InboundKind enumerates every client frame the service accepts.
type InboundKind int

const (
	InboundChatMessage InboundKind = iota
	InboundTyping
	InboundReadReceipt
	InboundDeleteMessage
	InboundCallSignal
)

// Inbound is the decoded form of one client frame.
type Inbound struct {
	Kind              InboundKind
	Content           string
	ReplyTo           *uuid.UUID
	IsTyping          bool
	MessageID         uuid.UUID
	DeleteForEveryone bool
	SignalType        string
	Data              json.RawMessage
}

// DecodeInbound parses a client frame into its tagged variant. Unknown
// types return ErrUnknownInbound.
func DecodeInbound(data []byte) (Inbound, error) {
	var frame struct {
		Type              string          `json:"type"`
		Content           string          `json:"content"`
		ReplyTo           *uuid.UUID      `json:"reply_to"`
		IsTyping          bool            `json:"is_typing"`
		MessageID         *uuid.UUID      `json:"message_id"`
		DeleteForEveryone bool            `json:"delete_for_everyone"`
		Data              json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return Inbound{}, err
	}

	switch frame.Type {
	case "chat_message":
		return Inbound{Kind: InboundChatMessage, Content: frame.Content, ReplyTo: frame.ReplyTo}, nil
	case "typing":
		return Inbound{Kind: InboundTyping, IsTyping: frame.IsTyping}, nil
	case "read_receipt":
		in := Inbound{Kind: InboundReadReceipt}
		if frame.MessageID != nil {
			in.MessageID = *frame.MessageID
		}
		return in, nil
	case "delete_message":
		in := Inbound{Kind: InboundDeleteMessage, DeleteForEveryone: frame.DeleteForEveryone}
		if frame.MessageID != nil {
			in.MessageID = *frame.MessageID
		}
		return in, nil
	case "offer", "answer", "ice_candidate":
		return Inbound{Kind: InboundCallSignal, SignalType: frame.Type, Data: frame.Data}, nil
	default:
		return Inbound{}, ErrUnknownInbound
	}
}

// ChatMessagePayload is the message body carried by a chat_message event.
type ChatMessagePayload struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    int        `json:"sender_id"`
	Content     string     `json:"content"`
	MessageType string     `json:"message_type"`
	CreatedAt   time.Time  `json:"created_at"`
	ReplyTo     *uuid.UUID `json:"reply_to,omitempty"`
}

// ChatMessageEvent fans a stored message out to a chat topic.
type ChatMessageEvent struct {
	Type    string             `json:"type"`
	Message ChatMessagePayload `json:"message"`
}

// NewChatMessageEvent builds the event for a freshly stored message.
func NewChatMessageEvent(msg models.Message) ChatMessageEvent {
	return ChatMessageEvent{
		Type: "chat_message",
		Message: ChatMessagePayload{
			ID:          msg.ID,
			SenderID:    msg.SenderID,
			Content:     msg.Content,
			MessageType: msg.MessageType,
			CreatedAt:   msg.CreatedAt,
			ReplyTo:     msg.ReplyTo,
		},
	}
}

// TypingIndicatorEvent tells peers a user started or stopped typing.
type TypingIndicatorEvent struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

// NewTypingIndicatorEvent builds a typing_indicator event.
func NewTypingIndicatorEvent(userID int, isTyping bool) TypingIndicatorEvent {
	return TypingIndicatorEvent{Type: "typing_indicator", UserID: userID, IsTyping: isTyping}
}

// UserStatusEvent announces an online/offline presence transition.
type UserStatusEvent struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	IsOnline bool   `json:"is_online"`
}

// NewUserStatusEvent builds a user_status event.
func NewUserStatusEvent(userID int, online bool) UserStatusEvent {
	return UserStatusEvent{Type: "user_status", UserID: userID, IsOnline: online}
}

// ReadReceiptEvent tells the chat a user has read a message.
type ReadReceiptEvent struct {
	Type      string    `json:"type"`
	MessageID uuid.UUID `json:"message_id"`
	UserID    int       `json:"user_id"`
}

// NewReadReceiptEvent builds a read_receipt event.
func NewReadReceiptEvent(messageID uuid.UUID, userID int) ReadReceiptEvent {
	return ReadReceiptEvent{Type: "read_receipt", MessageID: messageID, UserID: userID}
}

// MessageDeletedEvent announces a message deletion.
type MessageDeletedEvent struct {
	Type              string    `json:"type"`
	MessageID         uuid.UUID `json:"message_id"`
	DeleteForEveryone bool      `json:"delete_for_everyone"`
}

// NewMessageDeletedEvent builds a message_deleted event.
func NewMessageDeletedEvent(messageID uuid.UUID, forEveryone bool) MessageDeletedEvent {
	return MessageDeletedEvent{Type: "message_deleted", MessageID: messageID, DeleteForEveryone: forEveryone}
}

// CallSignalEvent relays an offer/answer/ice_candidate payload verbatim.
// The relay never inspects Data.
type CallSignalEvent struct {
	Type   string          `json:"type"`
	UserID int             `json:"user_id"`
	Data   json.RawMessage `json:"data"`
}

// NewCallSignalEvent mirrors the inbound signal type on the way out.
func NewCallSignalEvent(signalType string, userID int, data json.RawMessage) CallSignalEvent {
	return CallSignalEvent{Type: signalType, UserID: userID, Data: data}
}

// UserLeftEvent tells remaining call participants a peer disconnected.
type UserLeftEvent struct {
	Type   string `json:"type"`
	UserID int    `json:"user_id"`
}

// NewUserLeftEvent builds a user_left event.
func NewUserLeftEvent(userID int) UserLeftEvent {
	return UserLeftEvent{Type: "user_left", UserID: userID}
}

// NotificationEvent carries a stored notification on a user's personal
// topic.
type NotificationEvent struct {
	Type         string              `json:"type"`
	Notification models.Notification `json:"notification"`
}

// NewNotificationEvent builds a notification event.
func NewNotificationEvent(n models.Notification) NotificationEvent {
	return NotificationEvent{Type: "notification", Notification: n}
}
