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
	"messaging-service/internal/ws"
)

func setupCallRouter(handler *CallHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/calls", handler.InitiateCall)
	r.GET("/calls", handler.ListCalls)
	r.PATCH("/calls/:call_id/status", handler.UpdateCallStatus)
	return r
}

func TestInitiateCallSuccess(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewCallHandler(callRepo, notificationRepo, ws.NewHub())
	router := setupCallRouter(handler)

	call := models.Call{ID: uuid.New(), CallerID: 1, ReceiverID: 2, CallType: "video", Status: models.CallInitiated}
	callRepo.On("CreateCall", mock.Anything, 1, 2, "video").Return(call, nil).Once()
	notificationRepo.On("CreateNotification", mock.Anything, 2, "incoming_call", mock.Anything, mock.Anything, (*uuid.UUID)(nil), &call.ID).
		Return(models.Notification{ID: 5, UserID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/calls", bytes.NewBufferString(`{"receiver_id":2,"call_type":"video"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.Call
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, call.ID, resp.ID)
	assert.Equal(t, models.CallInitiated, resp.Status)
	callRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestInitiateCallSelfRejected(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/calls", bytes.NewBufferString(`{"receiver_id":1,"call_type":"audio"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	callRepo.AssertNotCalled(t, "CreateCall", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiateCallInvalidType(t *testing.T) {
	handler := NewCallHandler(new(mocks.CallRepositoryMock), new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/calls", bytes.NewBufferString(`{"receiver_id":2,"call_type":"hologram"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCallStatusAnswered(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	callID := uuid.New()
	existing := models.Call{ID: callID, CallerID: 2, ReceiverID: 1, Status: models.CallRinging}
	updated := existing
	updated.Status = models.CallOngoing
	callRepo.On("GetCall", mock.Anything, callID).Return(existing, nil).Once()
	callRepo.On("UpdateStatus", mock.Anything, callID, models.CallOngoing).Return(updated, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/calls/"+callID.String()+"/status", bytes.NewBufferString(`{"action":"answered"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.Call
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.CallOngoing, resp.Status)
	callRepo.AssertExpectations(t)
}

func TestUpdateCallStatusIllegalTransition(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	callID := uuid.New()
	existing := models.Call{ID: callID, CallerID: 1, ReceiverID: 2, Status: models.CallEnded}
	callRepo.On("GetCall", mock.Anything, callID).Return(existing, nil).Once()
	callRepo.On("UpdateStatus", mock.Anything, callID, models.CallOngoing).Return(models.Call{}, repositories.ErrInvalidTransition).Once()

	req := httptest.NewRequest(http.MethodPatch, "/calls/"+callID.String()+"/status", bytes.NewBufferString(`{"action":"answered"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	callRepo.AssertExpectations(t)
}

func TestUpdateCallStatusUnknownAction(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	req := httptest.NewRequest(http.MethodPatch, "/calls/"+uuid.NewString()+"/status", bytes.NewBufferString(`{"action":"paused"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	callRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCallStatusNotParticipant(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	callID := uuid.New()
	existing := models.Call{ID: callID, CallerID: 7, ReceiverID: 8, Status: models.CallRinging}
	callRepo.On("GetCall", mock.Anything, callID).Return(existing, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/calls/"+callID.String()+"/status", bytes.NewBufferString(`{"action":"declined"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	callRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCallStatusNotFound(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	callID := uuid.New()
	callRepo.On("GetCall", mock.Anything, callID).Return(models.Call{}, repositories.ErrCallNotFound).Once()

	req := httptest.NewRequest(http.MethodPatch, "/calls/"+callID.String()+"/status", bytes.NewBufferString(`{"action":"ended"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCallsSuccess(t *testing.T) {
	callRepo := new(mocks.CallRepositoryMock)
	handler := NewCallHandler(callRepo, new(mocks.NotificationRepositoryMock), ws.NewHub())
	router := setupCallRouter(handler)

	callRepo.On("ListCalls", mock.Anything, 1).Return([]models.Call{{ID: uuid.New(), CallerID: 1, ReceiverID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/calls", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	callRepo.AssertExpectations(t)
}
