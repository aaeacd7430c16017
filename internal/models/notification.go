package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a stored notification for a user, also fanned out live on
// the user's personal topic when they are connected.
type Notification struct {
	ID               int        `db:"id" json:"id"`
	UserID           int        `db:"user_id" json:"user_id"`
	NotificationType string     `db:"notification_type" json:"notification_type"`
	Title            string     `db:"title" json:"title"`
	Body             string     `db:"body" json:"body"`
	IsRead           bool       `db:"is_read" json:"is_read"`
	ChatID           *uuid.UUID `db:"chat_id" json:"chat_id,omitempty"`
	CallID           *uuid.UUID `db:"call_id" json:"call_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
