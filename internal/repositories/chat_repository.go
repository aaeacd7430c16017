package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	CreateOrGetPersonalChat(ctx context.Context, userID int, otherUserID int) (models.Chat, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (models.Chat, error)
	IsParticipant(ctx context.Context, chatID uuid.UUID, userID int) (bool, error)
	ListParticipants(ctx context.Context, chatID uuid.UUID) ([]int, error)
	ListChats(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateOrGetPersonalChat returns the personal chat between two users,
// creating it (with both membership rows) if it does not exist.
func (r *ChatRepo) CreateOrGetPersonalChat(ctx context.Context, userID int, otherUserID int) (models.Chat, error) {
	if userID == otherUserID {
		return models.Chat{}, errors.New("cannot create chat with self")
	}

	var chat models.Chat
	query := `SELECT c.id, c.chat_type, c.name, c.created_by, c.created_at FROM chats c
        JOIN chat_participants p1 ON p1.chat_id = c.id AND p1.user_id = $1
        JOIN chat_participants p2 ON p2.chat_id = c.id AND p2.user_id = $2
        WHERE c.chat_type = 'personal'
        LIMIT 1`
	err := r.db.GetContext(ctx, &chat, query, userID, otherUserID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, err
	}
	defer tx.Rollback()

	chatID := uuid.New()
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO chats (id, chat_type, created_by) VALUES ($1, 'personal', $2)
         RETURNING id, chat_type, name, created_by, created_at`,
		chatID, userID).StructScan(&chat); err != nil {
		return models.Chat{}, err
	}
	for _, member := range []int{userID, otherUserID} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`,
			chatID, member); err != nil {
			return models.Chat{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID uuid.UUID) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT id, chat_type, name, created_by, created_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID uuid.UUID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_participants WHERE chat_id=$1 AND user_id=$2)`,
		chatID, userID)
	return exists, err
}

// ListParticipants returns the user ids of every current chat member.
func (r *ChatRepo) ListParticipants(ctx context.Context, chatID uuid.UUID) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM chat_participants WHERE chat_id=$1 ORDER BY user_id`, chatID)
	return ids, err
}

// ListChats returns the chats the user participates in, newest first.
func (r *ChatRepo) ListChats(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	var chats []models.ChatSummary
	query := `SELECT c.id, c.chat_type, c.name, c.created_at FROM chats c
        JOIN chat_participants p ON p.chat_id = c.id
        WHERE p.user_id = $1
        ORDER BY c.created_at DESC`
	err := r.db.SelectContext(ctx, &chats, query, userID)
	return chats, err
}
