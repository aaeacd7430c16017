package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messaging-service/internal/models"
)

var ErrCallNotFound = errors.New("call not found")

// ErrInvalidTransition means the requested call status change is not a
// legal forward move from the call's current state.
var ErrInvalidTransition = errors.New("invalid call transition")

// CallRepository abstracts call persistence.
type CallRepository interface {
	CreateCall(ctx context.Context, callerID, receiverID int, callType string) (models.Call, error)
	GetCall(ctx context.Context, callID uuid.UUID) (models.Call, error)
	UpdateStatus(ctx context.Context, callID uuid.UUID, target models.CallStatus) (models.Call, error)
	ListCalls(ctx context.Context, userID int) ([]models.Call, error)
}

// CallRepo is a sqlx implementation of CallRepository.
type CallRepo struct {
	db *sqlx.DB
}

// NewCallRepo constructs a CallRepo.
func NewCallRepo(db *sqlx.DB) *CallRepo {
	return &CallRepo{db: db}
}

const callColumns = `id, caller_id, receiver_id, call_type, status, started_at, answered_at, ended_at, duration`

// CreateCall stores a new call in the initiated state.
func (r *CallRepo) CreateCall(ctx context.Context, callerID, receiverID int, callType string) (models.Call, error) {
	var call models.Call
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO calls (id, caller_id, receiver_id, call_type, status)
         VALUES ($1, $2, $3, $4, 'initiated')
         RETURNING `+callColumns,
		uuid.New(), callerID, receiverID, callType).StructScan(&call)
	return call, err
}

// GetCall fetches a call by id.
func (r *CallRepo) GetCall(ctx context.Context, callID uuid.UUID) (models.Call, error) {
	var call models.Call
	err := r.db.GetContext(ctx, &call,
		`SELECT `+callColumns+` FROM calls WHERE id=$1`, callID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Call{}, ErrCallNotFound
	}
	return call, err
}

// UpdateStatus applies one guarded transition. The WHERE clause restricts
// the current status to the legal sources for the target state, so a
// concurrent writer losing the race gets ErrInvalidTransition rather than
// overwriting a terminal state. Entering ongoing stamps answered_at;
// terminal states stamp ended_at; ended derives duration from answered_at.
func (r *CallRepo) UpdateStatus(ctx context.Context, callID uuid.UUID, target models.CallStatus) (models.Call, error) {
	sources := models.TransitionSources(target)
	if len(sources) == 0 {
		return models.Call{}, ErrInvalidTransition
	}
	from := make([]string, 0, len(sources))
	for _, s := range sources {
		from = append(from, string(s))
	}

	var query string
	switch target {
	case models.CallOngoing:
		query = `UPDATE calls SET status=$2, answered_at=NOW()
             WHERE id=$1 AND status = ANY($3) RETURNING ` + callColumns
	case models.CallEnded:
		query = `UPDATE calls
             SET status=$2, ended_at=NOW(),
                 duration=COALESCE(EXTRACT(EPOCH FROM (NOW() - answered_at))::INT, 0)
             WHERE id=$1 AND status = ANY($3) RETURNING ` + callColumns
	default:
		query = `UPDATE calls SET status=$2, ended_at=NOW()
             WHERE id=$1 AND status = ANY($3) RETURNING ` + callColumns
	}

	var call models.Call
	err := r.db.QueryRowxContext(ctx, query, callID, target, pq.Array(from)).StructScan(&call)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the call does not exist or it is not in a legal source
		// state; disambiguate for the caller.
		if _, getErr := r.GetCall(ctx, callID); getErr != nil {
			return models.Call{}, getErr
		}
		return models.Call{}, ErrInvalidTransition
	}
	return call, err
}

// ListCalls returns the user's call history, newest first.
func (r *CallRepo) ListCalls(ctx context.Context, userID int) ([]models.Call, error) {
	var calls []models.Call
	err := r.db.SelectContext(ctx, &calls,
		`SELECT `+callColumns+` FROM calls
         WHERE caller_id=$1 OR receiver_id=$1
         ORDER BY started_at DESC`, userID)
	return calls, err
}
