package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a submission attempt.
type State string

// Attempt states. Validating and Invalid never outlive a single Submit call,
// so only Sending and Completed are ever observed on a stored attempt.
const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateInvalid    State = "invalid"
	StateValid      State = "valid"
	StateSending    State = "sending"
	StateCompleted  State = "completed"
)

var allowedTransitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateInvalid, StateValid},
	StateInvalid:    {StateIdle},
	StateValid:      {StateSending},
	StateSending:    {StateCompleted},
	StateCompleted:  {},
}

// CanTransition reports whether an attempt may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// Attempt is one user-initiated send action.
type Attempt struct {
	ID          uuid.UUID        `json:"id"`
	State       State            `json:"state"`
	Request     TransferRequest  `json:"request"`
	Outcome     *TransferOutcome `json:"outcome,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}
