package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptRepository is the delivery-state tracker's write surface. Every
// statement guards the sent -> delivered -> read ordering so a receipt can
// never move backwards and each timestamp is set exactly once.
type ReceiptRepository interface {
	GetReceipt(ctx context.Context, messageID uuid.UUID, userID int) (models.Receipt, error)
	ListReceipts(ctx context.Context, messageID uuid.UUID) ([]models.Receipt, error)
	MarkDelivered(ctx context.Context, messageID uuid.UUID, userID int) (bool, error)
	MarkRead(ctx context.Context, messageID uuid.UUID, userID int) (bool, error)
	BulkMarkDelivered(ctx context.Context, chatID uuid.UUID, userID int) ([]uuid.UUID, error)
	BulkMarkRead(ctx context.Context, chatID uuid.UUID, userID int) ([]uuid.UUID, error)
}

// ReceiptRepo is a sqlx implementation of ReceiptRepository.
type ReceiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo constructs a ReceiptRepo.
func NewReceiptRepo(db *sqlx.DB) *ReceiptRepo {
	return &ReceiptRepo{db: db}
}

// GetReceipt fetches one (message, recipient) receipt row.
func (r *ReceiptRepo) GetReceipt(ctx context.Context, messageID uuid.UUID, userID int) (models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.GetContext(ctx, &receipt,
		`SELECT message_id, user_id, status, delivered_at, read_at
         FROM message_receipts WHERE message_id=$1 AND user_id=$2`, messageID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Receipt{}, ErrReceiptNotFound
	}
	return receipt, err
}

// ListReceipts returns all receipts for a message.
func (r *ReceiptRepo) ListReceipts(ctx context.Context, messageID uuid.UUID) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.SelectContext(ctx, &receipts,
		`SELECT message_id, user_id, status, delivered_at, read_at
         FROM message_receipts WHERE message_id=$1 ORDER BY user_id`, messageID)
	return receipts, err
}

// MarkDelivered advances a receipt sent -> delivered. Returns false when
// the receipt was already delivered or read (no-op, nothing regressed).
func (r *ReceiptRepo) MarkDelivered(ctx context.Context, messageID uuid.UUID, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE message_receipts
         SET status='delivered', delivered_at=NOW()
         WHERE message_id=$1 AND user_id=$2 AND status='sent'`,
		messageID, userID)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	return count > 0, err
}

// MarkRead advances a receipt to read, setting read_at on the first
// transition only. Returns false when the receipt was already read or does
// not exist.
func (r *ReceiptRepo) MarkRead(ctx context.Context, messageID uuid.UUID, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE message_receipts
         SET status='read', read_at=NOW()
         WHERE message_id=$1 AND user_id=$2 AND status IN ('sent','delivered')`,
		messageID, userID)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	return count > 0, err
}

// BulkMarkDelivered moves every 'sent' receipt of the user in the chat to
// 'delivered' in one statement and returns the affected message ids.
func (r *ReceiptRepo) BulkMarkDelivered(ctx context.Context, chatID uuid.UUID, userID int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`UPDATE message_receipts mr
         SET status='delivered', delivered_at=NOW()
         FROM messages m
         WHERE m.id = mr.message_id AND m.chat_id=$1
         AND mr.user_id=$2 AND mr.status='sent'
         RETURNING mr.message_id`,
		chatID, userID)
	return ids, err
}

// BulkMarkRead is the chat-open transition: every receipt of the opening
// user for messages they did not send, still in sent or delivered, becomes
// read in a single batch.
func (r *ReceiptRepo) BulkMarkRead(ctx context.Context, chatID uuid.UUID, userID int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`UPDATE message_receipts mr
         SET status='read', read_at=NOW()
         FROM messages m
         WHERE m.id = mr.message_id AND m.chat_id=$1
         AND mr.user_id=$2 AND m.sender_id<>$2
         AND mr.status IN ('sent','delivered')
         RETURNING mr.message_id`,
		chatID, userID)
	return ids, err
}
