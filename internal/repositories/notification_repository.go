package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, userID int, notificationType, title, body string, chatID, callID *uuid.UUID) (models.Notification, error)
	ListNotifications(ctx context.Context, userID int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID int, userID int) error
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateNotification stores a notification row.
func (r *NotificationRepo) CreateNotification(ctx context.Context, userID int, notificationType, title, body string, chatID, callID *uuid.UUID) (models.Notification, error) {
	var n models.Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, notification_type, title, body, chat_id, call_id)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, user_id, notification_type, title, body, is_read, chat_id, call_id, created_at`,
		userID, notificationType, title, body, chatID, callID).StructScan(&n)
	return n, err
}

// ListNotifications returns the user's notifications, newest first.
func (r *NotificationRepo) ListNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications,
		`SELECT id, user_id, notification_type, title, body, is_read, chat_id, call_id, created_at
         FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return notifications, err
}

// MarkNotificationRead flags one of the user's notifications as read.
func (r *NotificationRepo) MarkNotificationRead(ctx context.Context, notificationID int, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`,
		notificationID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
