package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
	"messaging-service/internal/ws"
)

// ChatHandler manages the chat REST endpoints.
type ChatHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	receiptRepo repositories.ReceiptRepository
	hub         *ws.Hub
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, receiptRepo repositories.ReceiptRepository, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		receiptRepo: receiptRepo,
		hub:         hub,
	}
}

// ListChats returns the chats the authenticated user participates in.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetInt("userID")

	chats, err := h.chatRepo.ListChats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// StartChat creates or returns the personal chat with another user.
func (h *ChatHandler) StartChat(c *gin.Context) {
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
		return
	}

	chat, err := h.chatRepo.CreateOrGetPersonalChat(c.Request.Context(), userID, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat_id": chat.ID})
}

// GetChatMessages returns paginated chat history for the user. Fetching
// history is the delivery acknowledgment: every 'sent' receipt of the
// user in this chat advances to 'delivered' in one batch.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID, userID, ok := h.requireMembership(c)
	if !ok {
		return
	}

	var before *uuid.UUID
	if raw := c.Query("before"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before cursor"})
			return
		}
		before = &id
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	msgs, err := h.messageRepo.ListMessagesForUser(c.Request.Context(), chatID, userID, before, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	delivered, err := h.receiptRepo.BulkMarkDelivered(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update receipts"})
		return
	}
	if len(delivered) > 0 {
		observability.IncReceiptTransition(string(models.ReceiptDelivered))
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// OpenChat marks every unread message in the chat as read for the user in
// one batch and announces each transition so peers see their checkmarks.
func (h *ChatHandler) OpenChat(c *gin.Context) {
	chatID, userID, ok := h.requireMembership(c)
	if !ok {
		return
	}

	read, err := h.receiptRepo.BulkMarkRead(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark chat read"})
		return
	}
	if len(read) > 0 {
		observability.IncReceiptTransition(string(models.ReceiptRead))
	}
	for _, messageID := range read {
		h.hub.Publish(ws.ChatTopic(chatID), ws.NewReadReceiptEvent(messageID, userID), "")
	}

	c.JSON(http.StatusOK, gin.H{"read_count": len(read)})
}

// PostChatMessage stores a chat message with its receipts and broadcasts
// it to the chat topic.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	chatID, userID, ok := h.requireMembership(c)
	if !ok {
		return
	}

	var req struct {
		Content string     `json:"content" binding:"required"`
		ReplyTo *uuid.UUID `json:"reply_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatID, userID, req.Content, req.ReplyTo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	observability.IncReceiptTransition(string(models.ReceiptSent))

	h.hub.Publish(ws.ChatTopic(chatID), ws.NewChatMessageEvent(msg), "")
	c.JSON(http.StatusCreated, msg)
}

// DeleteMessageForMe hides a message from the caller's history only.
func (h *ChatHandler) DeleteMessageForMe(c *gin.Context) {
	chatID, messageID, ok := parseIDs(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	msg, ok := h.requireMessageInChat(c, chatID, messageID)
	if !ok {
		return
	}
	member, err := h.chatRepo.IsParticipant(c.Request.Context(), msg.ChatID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	if err := h.messageRepo.DeleteForUser(c.Request.Context(), messageID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteMessageForAll tombstones a message for every participant. Only the
// sender may do this and only within the deletion window; a late request
// changes nothing and publishes nothing.
func (h *ChatHandler) DeleteMessageForAll(c *gin.Context) {
	chatID, messageID, ok := parseIDs(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	msg, ok := h.requireMessageInChat(c, chatID, messageID)
	if !ok {
		return
	}
	if msg.SenderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only sender can delete for all"})
		return
	}

	if err := h.messageRepo.DeleteForEveryone(c.Request.Context(), messageID, userID); err != nil {
		if errors.Is(err, repositories.ErrDeleteRejected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delete window has passed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		return
	}

	h.hub.Publish(ws.ChatTopic(chatID), ws.NewMessageDeletedEvent(messageID, true), "")
	c.Status(http.StatusNoContent)
}

// requireMembership parses the chat id and checks the caller belongs to
// the chat. On failure it has already written the response.
func (h *ChatHandler) requireMembership(c *gin.Context) (uuid.UUID, int, bool) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return uuid.Nil, 0, false
	}
	userID := c.GetInt("userID")

	member, err := h.chatRepo.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return uuid.Nil, 0, false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return uuid.Nil, 0, false
	}
	return chatID, userID, true
}

func (h *ChatHandler) requireMessageInChat(c *gin.Context, chatID, messageID uuid.UUID) (models.Message, bool) {
	msg, err := h.messageRepo.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return models.Message{}, false
	}
	if msg.ChatID != chatID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message does not belong to chat"})
		return models.Message{}, false
	}
	return msg, true
}

func parseIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return uuid.Nil, uuid.Nil, false
	}
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return uuid.Nil, uuid.Nil, false
	}
	return chatID, messageID, true
}
