package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a conversation between two or more participants.
type Chat struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ChatType  string    `db:"chat_type" json:"chat_type"`
	Name      *string   `db:"name" json:"name,omitempty"`
	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatParticipant is the membership row linking a user to a chat.
type ChatParticipant struct {
	ChatID   uuid.UUID `db:"chat_id" json:"chat_id"`
	UserID   int       `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// ChatSummary provides an API-friendly view of a chat for a user.
type ChatSummary struct {
	ChatID    uuid.UUID `db:"id" json:"chat_id"`
	ChatType  string    `db:"chat_type" json:"chat_type"`
	Name      *string   `db:"name" json:"name,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
