package models

import (
	"time"

	"github.com/google/uuid"
)

// TombstoneContent replaces the body of a message deleted for everyone.
const TombstoneContent = "This message was deleted"

// DeleteForEveryoneWindow is how long after sending a message may still be
// deleted for everyone, measured from CreatedAt.
const DeleteForEveryoneWindow = time.Hour

// Message is a single message in a chat.
type Message struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	ChatID             uuid.UUID  `db:"chat_id" json:"chat_id"`
	SenderID           int        `db:"sender_id" json:"sender_id"`
	MessageType        string     `db:"message_type" json:"message_type"`
	Content            string     `db:"content" json:"content"`
	ReplyTo            *uuid.UUID `db:"reply_to" json:"reply_to,omitempty"`
	IsDeleted          bool       `db:"is_deleted" json:"is_deleted"`
	DeletedForEveryone bool       `db:"deleted_for_everyone" json:"deleted_for_everyone"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// CanDeleteForEveryone reports whether a delete-for-everyone request at now
// is still inside the allowed window for a message created at createdAt.
func CanDeleteForEveryone(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= DeleteForEveryoneWindow
}

// Reaction is a single emoji reaction, at most one per (message, user).
type Reaction struct {
	MessageID uuid.UUID `db:"message_id" json:"message_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
