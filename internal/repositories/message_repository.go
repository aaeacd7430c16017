package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// ErrDeleteRejected means a delete-for-everyone was refused: the requester
// is not the sender, the window has passed, or the message is already gone.
var ErrDeleteRejected = errors.New("delete for everyone rejected")

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID uuid.UUID, senderID int, content string, replyTo *uuid.UUID) (models.Message, error)
	GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error)
	ListMessagesForUser(ctx context.Context, chatID uuid.UUID, userID int, before *uuid.UUID, limit int) ([]models.Message, error)
	DeleteForEveryone(ctx context.Context, messageID uuid.UUID, senderID int) error
	DeleteForUser(ctx context.Context, messageID uuid.UUID, userID int) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message and a 'sent' receipt for every other
// current participant in one transaction. The message and its receipts
// commit together or not at all.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID uuid.UUID, senderID int, content string, replyTo *uuid.UUID) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer tx.Rollback()

	var msg models.Message
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, message_type, content, reply_to)
         VALUES ($1, $2, $3, 'text', $4, $5)
         RETURNING id, chat_id, sender_id, message_type, content, reply_to, is_deleted, deleted_for_everyone, created_at`,
		uuid.New(), chatID, senderID, content, replyTo).StructScan(&msg); err != nil {
		return models.Message{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO message_receipts (message_id, user_id, status)
         SELECT $1, user_id, 'sent' FROM chat_participants WHERE chat_id=$2 AND user_id<>$3`,
		msg.ID, chatID, senderID); err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT id, chat_id, sender_id, message_type, content, reply_to, is_deleted, deleted_for_everyone, created_at
         FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// ListMessagesForUser returns chat messages visible to the user in
// created_at order, excluding messages the user deleted for themselves.
// Tombstoned messages are included with their replaced content. A non-nil
// before cursor restricts to messages older than that message.
func (r *MessageRepo) ListMessagesForUser(ctx context.Context, chatID uuid.UUID, userID int, before *uuid.UUID, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	const base = `SELECT m.id, m.chat_id, m.sender_id, m.message_type, m.content, m.reply_to, m.is_deleted, m.deleted_for_everyone, m.created_at
        FROM messages m
        WHERE m.chat_id = $1
        AND NOT EXISTS (SELECT 1 FROM message_deletions d WHERE d.message_id = m.id AND d.user_id = $2)`

	var msgs []models.Message
	var err error
	if before != nil {
		query := base + `
        AND m.created_at < (SELECT created_at FROM messages WHERE id = $3)
        ORDER BY m.created_at DESC LIMIT $4`
		err = r.db.SelectContext(ctx, &msgs, query, chatID, userID, *before, limit)
	} else {
		query := base + `
        ORDER BY m.created_at DESC LIMIT $3`
		err = r.db.SelectContext(ctx, &msgs, query, chatID, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	// Oldest first for the client.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// DeleteForEveryone tombstones a message. The sender check and the time
// window are enforced in the statement itself so the decision is atomic
// with the mutation.
func (r *MessageRepo) DeleteForEveryone(ctx context.Context, messageID uuid.UUID, senderID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages
         SET deleted_for_everyone = TRUE, is_deleted = TRUE, content = $3
         WHERE id = $1 AND sender_id = $2
         AND deleted_for_everyone = FALSE
         AND created_at > NOW() - INTERVAL '1 hour'`,
		messageID, senderID, models.TombstoneContent)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrDeleteRejected
	}
	return nil
}

// DeleteForUser records a per-user deletion so the message disappears from
// that user's history only.
func (r *MessageRepo) DeleteForUser(ctx context.Context, messageID uuid.UUID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO message_deletions (message_id, user_id, deleted_at) VALUES ($1, $2, $3)
         ON CONFLICT (message_id, user_id) DO NOTHING`,
		messageID, userID, time.Now())
	return err
}
