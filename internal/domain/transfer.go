// Package domain provides definitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAttemptNotFound indicates that no attempt with the given id is known.
	ErrAttemptNotFound = errors.New("transfer attempt not found")
	// ErrTransferFailed indicates that the transfer service did not confirm the transfer.
	ErrTransferFailed = errors.New("transfer failed")
	// ErrInvalidTransition indicates an attempt was moved to a state it cannot reach.
	ErrInvalidTransition = errors.New("invalid attempt state transition")
)

// Messages of the transfer service.
const (
	MsgTransferComplete = "Transfer complete!"
	MsgTransferFailed   = "Transfer failed. Try again."
)

// TransferForm is the raw user input as it arrives at the submit entry point.
//
// Amount is either a JSON number or a numeric-like string.
type TransferForm struct {
	Recipient string `json:"recipient"`
	Amount    any    `json:"amount"`
}

// TransferRequest is a validated transfer, immutable once built.
type TransferRequest struct {
	RecipientRaw       string          `json:"recipient_raw"`
	RecipientCanonical string          `json:"recipient"`
	AmountRaw          any             `json:"amount_raw"`
	AmountCanonical    decimal.Decimal `json:"amount"`
}

// RemoteResponse is the payload returned by the transfer service.
//
// Success is a pointer so that a payload without the flag can be told apart
// from an explicit failure.
type RemoteResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
}

// Succeeded reports whether the service declared the transfer successful.
// A missing flag counts as failure.
func (r RemoteResponse) Succeeded() bool {
	return r.Success != nil && *r.Success
}

// TransferOutcome is the terminal result of one attempt.
type TransferOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
