package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

type ChatRepositoryMock struct {
	mock.Mock
}

var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)

func (m *ChatRepositoryMock) CreateOrGetPersonalChat(ctx context.Context, userID int, otherUserID int) (models.Chat, error) {
	args := m.Called(ctx, userID, otherUserID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID uuid.UUID) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) IsParticipant(ctx context.Context, chatID uuid.UUID, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListParticipants(ctx context.Context, chatID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, chatID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *ChatRepositoryMock) ListChats(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID uuid.UUID, senderID int, content string, replyTo *uuid.UUID) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, content, replyTo)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessagesForUser(ctx context.Context, chatID uuid.UUID, userID int, before *uuid.UUID, limit int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, userID, before, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) DeleteForEveryone(ctx context.Context, messageID uuid.UUID, senderID int) error {
	args := m.Called(ctx, messageID, senderID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteForUser(ctx context.Context, messageID uuid.UUID, userID int) error {
	args := m.Called(ctx, messageID, userID)
	return args.Error(0)
}

type ReceiptRepositoryMock struct {
	mock.Mock
}

var _ repositories.ReceiptRepository = (*ReceiptRepositoryMock)(nil)

func (m *ReceiptRepositoryMock) GetReceipt(ctx context.Context, messageID uuid.UUID, userID int) (models.Receipt, error) {
	args := m.Called(ctx, messageID, userID)
	var receipt models.Receipt
	if val := args.Get(0); val != nil {
		receipt = val.(models.Receipt)
	}
	return receipt, args.Error(1)
}

func (m *ReceiptRepositoryMock) ListReceipts(ctx context.Context, messageID uuid.UUID) ([]models.Receipt, error) {
	args := m.Called(ctx, messageID)
	var receipts []models.Receipt
	if val := args.Get(0); val != nil {
		receipts = val.([]models.Receipt)
	}
	return receipts, args.Error(1)
}

func (m *ReceiptRepositoryMock) MarkDelivered(ctx context.Context, messageID uuid.UUID, userID int) (bool, error) {
	args := m.Called(ctx, messageID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ReceiptRepositoryMock) MarkRead(ctx context.Context, messageID uuid.UUID, userID int) (bool, error) {
	args := m.Called(ctx, messageID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ReceiptRepositoryMock) BulkMarkDelivered(ctx context.Context, chatID uuid.UUID, userID int) ([]uuid.UUID, error) {
	args := m.Called(ctx, chatID, userID)
	var ids []uuid.UUID
	if val := args.Get(0); val != nil {
		ids = val.([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func (m *ReceiptRepositoryMock) BulkMarkRead(ctx context.Context, chatID uuid.UUID, userID int) ([]uuid.UUID, error) {
	args := m.Called(ctx, chatID, userID)
	var ids []uuid.UUID
	if val := args.Get(0); val != nil {
		ids = val.([]uuid.UUID)
	}
	return ids, args.Error(1)
}

type CallRepositoryMock struct {
	mock.Mock
}

var _ repositories.CallRepository = (*CallRepositoryMock)(nil)

func (m *CallRepositoryMock) CreateCall(ctx context.Context, callerID, receiverID int, callType string) (models.Call, error) {
	args := m.Called(ctx, callerID, receiverID, callType)
	var call models.Call
	if val := args.Get(0); val != nil {
		call = val.(models.Call)
	}
	return call, args.Error(1)
}

func (m *CallRepositoryMock) GetCall(ctx context.Context, callID uuid.UUID) (models.Call, error) {
	args := m.Called(ctx, callID)
	var call models.Call
	if val := args.Get(0); val != nil {
		call = val.(models.Call)
	}
	return call, args.Error(1)
}

func (m *CallRepositoryMock) UpdateStatus(ctx context.Context, callID uuid.UUID, target models.CallStatus) (models.Call, error) {
	args := m.Called(ctx, callID, target)
	var call models.Call
	if val := args.Get(0); val != nil {
		call = val.(models.Call)
	}
	return call, args.Error(1)
}

func (m *CallRepositoryMock) ListCalls(ctx context.Context, userID int) ([]models.Call, error) {
	args := m.Called(ctx, userID)
	var calls []models.Call
	if val := args.Get(0); val != nil {
		calls = val.([]models.Call)
	}
	return calls, args.Error(1)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

var _ repositories.ReactionRepository = (*ReactionRepositoryMock)(nil)

func (m *ReactionRepositoryMock) ToggleReaction(ctx context.Context, messageID uuid.UUID, userID int, emoji string) (string, error) {
	args := m.Called(ctx, messageID, userID, emoji)
	return args.String(0), args.Error(1)
}

func (m *ReactionRepositoryMock) ListReactions(ctx context.Context, messageID uuid.UUID) ([]models.Reaction, error) {
	args := m.Called(ctx, messageID)
	var reactions []models.Reaction
	if val := args.Get(0); val != nil {
		reactions = val.([]models.Reaction)
	}
	return reactions, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

var _ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, userID int, notificationType, title, body string, chatID, callID *uuid.UUID) (models.Notification, error) {
	args := m.Called(ctx, userID, notificationType, title, body, chatID, callID)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) ListNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	var notifications []models.Notification
	if val := args.Get(0); val != nil {
		notifications = val.([]models.Notification)
	}
	return notifications, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkNotificationRead(ctx context.Context, notificationID int, userID int) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}
