package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// Reaction toggle outcomes.
const (
	ReactionAdded   = "added"
	ReactionUpdated = "updated"
	ReactionRemoved = "removed"
)

// ReactionRepository manages emoji reactions, one per (message, user).
type ReactionRepository interface {
	ToggleReaction(ctx context.Context, messageID uuid.UUID, userID int, emoji string) (string, error)
	ListReactions(ctx context.Context, messageID uuid.UUID) ([]models.Reaction, error)
}

// ReactionRepo is a sqlx implementation of ReactionRepository.
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo constructs a ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// ToggleReaction adds the reaction, replaces a different existing emoji, or
// removes the reaction when the same emoji is sent twice.
func (r *ReactionRepo) ToggleReaction(ctx context.Context, messageID uuid.UUID, userID int, emoji string) (string, error) {
	var current string
	err := r.db.GetContext(ctx, &current,
		`SELECT emoji FROM message_reactions WHERE message_id=$1 AND user_id=$2`,
		messageID, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO message_reactions (message_id, user_id, emoji) VALUES ($1, $2, $3)`,
			messageID, userID, emoji)
		if err != nil {
			return "", err
		}
		return ReactionAdded, nil
	case err != nil:
		return "", err
	case current == emoji:
		_, err = r.db.ExecContext(ctx,
			`DELETE FROM message_reactions WHERE message_id=$1 AND user_id=$2`,
			messageID, userID)
		if err != nil {
			return "", err
		}
		return ReactionRemoved, nil
	default:
		_, err = r.db.ExecContext(ctx,
			`UPDATE message_reactions SET emoji=$3 WHERE message_id=$1 AND user_id=$2`,
			messageID, userID, emoji)
		if err != nil {
			return "", err
		}
		return ReactionUpdated, nil
	}
}

// ListReactions returns all reactions on a message.
func (r *ReactionRepo) ListReactions(ctx context.Context, messageID uuid.UUID) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.SelectContext(ctx, &reactions,
		`SELECT message_id, user_id, emoji, created_at
         FROM message_reactions WHERE message_id=$1 ORDER BY created_at`, messageID)
	return reactions, err
}
