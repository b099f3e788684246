// Package transfergateway talks to the remote transfer service.
package transfergateway

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-transfer/internal/domain"
	"github.com/go-petr/pet-transfer/pkg/randompkg"
)

// Defaults of the simulated service.
const (
	DefaultLatency     = 1500 * time.Millisecond
	DefaultSuccessRate = 0.8
)

// Simulated stands in for the remote transfer service: it waits for a fixed
// latency and then succeeds with the configured probability.
type Simulated struct {
	latency     time.Duration
	successRate float64
	random      func() float64
}

// Option customizes a Simulated gateway.
type Option func(*Simulated)

// WithRandom replaces the source of randomness, mostly for tests.
func WithRandom(f func() float64) Option {
	return func(s *Simulated) {
		s.random = f
	}
}

// NewSimulated returns a simulated gateway.
func NewSimulated(latency time.Duration, successRate float64, opts ...Option) *Simulated {
	s := &Simulated{
		latency:     latency,
		successRate: successRate,
		random:      randompkg.Float64,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Submit sends one transfer and waits for the service's answer.
func (s *Simulated) Submit(ctx context.Context, recipient string, amount decimal.Decimal) (domain.RemoteResponse, error) {
	l := zerolog.Ctx(ctx)

	l.Debug().
		Str("recipient", recipient).
		Str("amount", amount.String()).
		Dur("latency", s.latency).
		Msg("submitting transfer")

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			l.Info().Err(ctx.Err()).Send()
			return domain.RemoteResponse{}, ctx.Err()
		}
	}

	success := s.random() < s.successRate

	msg := domain.MsgTransferFailed
	if success {
		msg = domain.MsgTransferComplete
	}

	return domain.RemoteResponse{Success: &success, Message: msg}, nil
}
