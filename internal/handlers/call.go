package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
	"messaging-service/internal/ws"
)

// callActions maps client action verbs to call states. "answered" is the
// client-facing name for entering ongoing.
var callActions = map[string]models.CallStatus{
	"ringing":  models.CallRinging,
	"answered": models.CallOngoing,
	"ended":    models.CallEnded,
	"missed":   models.CallMissed,
	"declined": models.CallDeclined,
	"failed":   models.CallFailed,
}

// CallHandler manages the call REST endpoints.
type CallHandler struct {
	callRepo         repositories.CallRepository
	notificationRepo repositories.NotificationRepository
	hub              *ws.Hub
}

// NewCallHandler builds a CallHandler.
func NewCallHandler(callRepo repositories.CallRepository, notificationRepo repositories.NotificationRepository, hub *ws.Hub) *CallHandler {
	return &CallHandler{
		callRepo:         callRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// InitiateCall creates a call row in the initiated state and pushes an
// incoming-call notification onto the receiver's personal topic.
func (h *CallHandler) InitiateCall(c *gin.Context) {
	var req struct {
		ReceiverID int    `json:"receiver_id" binding:"required"`
		CallType   string `json:"call_type" binding:"required,oneof=audio video"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.ReceiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot call yourself"})
		return
	}

	call, err := h.callRepo.CreateCall(c.Request.Context(), userID, req.ReceiverID, req.CallType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create call"})
		return
	}

	n, err := h.notificationRepo.CreateNotification(c.Request.Context(),
		req.ReceiverID, "incoming_call", "Incoming call",
		"You have an incoming "+req.CallType+" call", nil, &call.ID)
	if err != nil {
		// The call itself exists; the receiver can still join via the list.
		log.Printf("store call notification failed: %v", err)
	} else {
		h.hub.Publish(ws.UserTopic(req.ReceiverID), ws.NewNotificationEvent(n), "")
	}

	c.JSON(http.StatusCreated, call)
}

// UpdateCallStatus advances a call through its lifecycle. Illegal moves,
// including any move out of a terminal state, come back as 409.
func (h *CallHandler) UpdateCallStatus(c *gin.Context) {
	callID, err := uuid.Parse(c.Param("call_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, ok := callActions[req.Action]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	userID := c.GetInt("userID")
	call, err := h.callRepo.GetCall(c.Request.Context(), callID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}
	if call.CallerID != userID && call.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a call participant"})
		return
	}

	updated, err := h.callRepo.UpdateStatus(c.Request.Context(), callID, target)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "invalid call transition"})
			return
		}
		if errors.Is(err, repositories.ErrCallNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update call"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListCalls returns the user's call history.
func (h *CallHandler) ListCalls(c *gin.Context) {
	userID := c.GetInt("userID")

	calls, err := h.callRepo.ListCalls(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load calls"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": calls})
}
