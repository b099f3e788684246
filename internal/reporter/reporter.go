// Package reporter turns validation failures and transfer outcomes into
// what the user gets to see.
package reporter

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-transfer/internal/domain"
)

var fieldPriority = []string{domain.FieldRecipient, domain.FieldAmount}

// Surface receives completed attempts for display.
//
//go:generate mockgen -source reporter.go -destination reporter_mock.go -package reporter
type Surface interface {
	Save(ctx context.Context, attempt domain.Attempt) error
}

// Reporter forwards outcomes to the result surface.
type Reporter struct {
	surface Surface
}

// New returns a reporter publishing to s.
func New(s Surface) *Reporter {
	return &Reporter{surface: s}
}

// Message projects a validation failure onto a single user-facing message.
// Recipient failures take priority over amount failures.
func Message(err error) string {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		for _, field := range fieldPriority {
			if e, ok := fe.Field(field); ok {
				return e.Message
			}
		}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	return ""
}

// Invalid logs a rejected form along with the message shown for it.
func (r *Reporter) Invalid(ctx context.Context, err error) {
	zerolog.Ctx(ctx).Info().Err(err).Str("user_message", Message(err)).Msg("transfer form rejected")
}

// Completed forwards the outcome of a finished attempt unchanged.
func (r *Reporter) Completed(ctx context.Context, attempt domain.Attempt) error {
	l := zerolog.Ctx(ctx)

	if attempt.Outcome == nil {
		l.Error().Str("attempt_id", attempt.ID.String()).Msg("completed attempt without outcome")
		return domain.ErrTransferFailed
	}

	event := l.Info()
	if !attempt.Outcome.Success {
		event = l.Warn()
	}

	event.
		Str("attempt_id", attempt.ID.String()).
		Bool("success", attempt.Outcome.Success).
		Str("user_message", attempt.Outcome.Message).
		Msg("transfer completed")

	return r.surface.Save(ctx, attempt)
}
