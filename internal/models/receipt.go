package models

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptStatus tracks per-recipient delivery state of a message.
type ReceiptStatus string

const (
	ReceiptSent      ReceiptStatus = "sent"
	ReceiptDelivered ReceiptStatus = "delivered"
	ReceiptRead      ReceiptStatus = "read"
)

var receiptRank = map[ReceiptStatus]int{
	ReceiptSent:      0,
	ReceiptDelivered: 1,
	ReceiptRead:      2,
}

// CanAdvance reports whether a receipt may move from one status to another.
// Status only ever moves forward: sent -> delivered -> read.
func (s ReceiptStatus) CanAdvance(to ReceiptStatus) bool {
	from, ok := receiptRank[s]
	if !ok {
		return false
	}
	next, ok := receiptRank[to]
	if !ok {
		return false
	}
	return next > from
}

// Receipt is one delivery/read tracking row per (message, recipient).
type Receipt struct {
	MessageID   uuid.UUID     `db:"message_id" json:"message_id"`
	UserID      int           `db:"user_id" json:"user_id"`
	Status      ReceiptStatus `db:"status" json:"status"`
	DeliveredAt *time.Time    `db:"delivered_at" json:"delivered_at,omitempty"`
	ReadAt      *time.Time    `db:"read_at" json:"read_at,omitempty"`
}
