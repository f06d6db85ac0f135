package application

import (
	"time"

	"recruitflow/internal/common"
)

// Transition is one append-only audit row. FromStatus always equals the
// application's status immediately before the write.
type Transition struct {
	ID            int64       `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	FromStatus    Status      `json:"from_status"`
	ToStatus      Status      `json:"to_status"`
	RecruiterID   *int64      `json:"recruiter_id,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CanTransition reports whether from -> to is a legal status move.
// A recruiter may claim and decide in one step, so new may go straight
// to invited or rejected; invited and rejected are terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusNew:
		return to == StatusInProgress || to == StatusInvited || to == StatusRejected
	case StatusInProgress:
		return to == StatusInvited || to == StatusRejected
	default:
		return false
	}
}

// KnownStatus reports whether the value is one of the defined statuses.
func KnownStatus(status Status) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusInvited, StatusRejected:
		return true
	default:
		return false
	}
}
