package models

import (
	"time"

	"github.com/google/uuid"
)

// CallStatus is the lifecycle state of a call row.
type CallStatus string

const (
	CallInitiated CallStatus = "initiated"
	CallRinging   CallStatus = "ringing"
	CallOngoing   CallStatus = "ongoing"
	CallEnded     CallStatus = "ended"
	CallMissed    CallStatus = "missed"
	CallDeclined  CallStatus = "declined"
	CallFailed    CallStatus = "failed"
)

// callTransitions is the closed set of legal forward moves. Terminal states
// (ended, missed, declined, failed) accept nothing.
var callTransitions = map[CallStatus]map[CallStatus]bool{
	CallInitiated: {
		CallRinging:  true,
		CallOngoing:  true,
		CallMissed:   true,
		CallDeclined: true,
		CallFailed:   true,
	},
	CallRinging: {
		CallOngoing:  true,
		CallMissed:   true,
		CallDeclined: true,
		CallFailed:   true,
	},
	CallOngoing: {
		CallEnded: true,
	},
}

// CanTransition reports whether a call may move from s to next.
func (s CallStatus) CanTransition(next CallStatus) bool {
	return callTransitions[s][next]
}

// IsTerminal reports whether no further transitions are accepted from s.
func (s CallStatus) IsTerminal() bool {
	switch s {
	case CallEnded, CallMissed, CallDeclined, CallFailed:
		return true
	}
	return false
}

// TransitionSources lists the states a transition into target may start
// from, used to build guarded UPDATE statements.
func TransitionSources(target CallStatus) []CallStatus {
	var sources []CallStatus
	for _, from := range []CallStatus{CallInitiated, CallRinging, CallOngoing} {
		if callTransitions[from][target] {
			sources = append(sources, from)
		}
	}
	return sources
}

// Call is a voice or video call between two users.
type Call struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	CallerID   int        `db:"caller_id" json:"caller_id"`
	ReceiverID int        `db:"receiver_id" json:"receiver_id"`
	CallType   string     `db:"call_type" json:"call_type"`
	Status     CallStatus `db:"status" json:"status"`
	StartedAt  time.Time  `db:"started_at" json:"started_at"`
	AnsweredAt *time.Time `db:"answered_at" json:"answered_at,omitempty"`
	EndedAt    *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	Duration   int        `db:"duration" json:"duration"`
}
