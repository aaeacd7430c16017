package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

func setupReactionRouter(handler *ReactionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/chats/:chat_id/messages/:message_id/reactions", handler.ToggleReaction)
	r.GET("/chats/:chat_id/messages/:message_id/reactions", handler.ListReactions)
	return r
}

func TestToggleReactionAdded(t *testing.T) {
	reactionRepo := new(mocks.ReactionRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewReactionHandler(reactionRepo, messageRepo, chatRepo)
	router := setupReactionRouter(handler)

	chatID := uuid.New()
	messageID := uuid.New()
	messageRepo.On("GetMessage", mock.Anything, messageID).Return(models.Message{ID: messageID, ChatID: chatID, SenderID: 2}, nil).Once()
	chatRepo.On("IsParticipant", mock.Anything, chatID, 1).Return(true, nil).Once()
	reactionRepo.On("ToggleReaction", mock.Anything, messageID, 1, "👍").Return(repositories.ReactionAdded, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages/"+messageID.String()+"/reactions",
		bytes.NewBufferString(`{"emoji":"👍"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, repositories.ReactionAdded, resp["result"])
	reactionRepo.AssertExpectations(t)
}

func TestToggleReactionMessageNotFound(t *testing.T) {
	reactionRepo := new(mocks.ReactionRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewReactionHandler(reactionRepo, messageRepo, new(mocks.ChatRepositoryMock))
	router := setupReactionRouter(handler)

	chatID := uuid.New()
	messageID := uuid.New()
	messageRepo.On("GetMessage", mock.Anything, messageID).Return(models.Message{}, repositories.ErrMessageNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages/"+messageID.String()+"/reactions",
		bytes.NewBufferString(`{"emoji":"👍"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	reactionRepo.AssertNotCalled(t, "ToggleReaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleReactionNotMember(t *testing.T) {
	reactionRepo := new(mocks.ReactionRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewReactionHandler(reactionRepo, messageRepo, chatRepo)
	router := setupReactionRouter(handler)

	chatID := uuid.New()
	messageID := uuid.New()
	messageRepo.On("GetMessage", mock.Anything, messageID).Return(models.Message{ID: messageID, ChatID: chatID}, nil).Once()
	chatRepo.On("IsParticipant", mock.Anything, chatID, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages/"+messageID.String()+"/reactions",
		bytes.NewBufferString(`{"emoji":"👍"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	reactionRepo.AssertNotCalled(t, "ToggleReaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListReactionsSuccess(t *testing.T) {
	reactionRepo := new(mocks.ReactionRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewReactionHandler(reactionRepo, new(mocks.MessageRepositoryMock), chatRepo)
	router := setupReactionRouter(handler)

	chatID := uuid.New()
	messageID := uuid.New()
	chatRepo.On("IsParticipant", mock.Anything, chatID, 1).Return(true, nil).Once()
	reactionRepo.On("ListReactions", mock.Anything, messageID).Return([]models.Reaction{{MessageID: messageID, UserID: 2, Emoji: "❤️"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/"+chatID.String()+"/messages/"+messageID.String()+"/reactions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	reactionRepo.AssertExpectations(t)
}
