// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-transfer/internal/domain"
)

// Gateway is the remote transfer service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Gateway interface {
	Submit(ctx context.Context, recipient string, amount decimal.Decimal) (domain.RemoteResponse, error)
}

// Ledger provides the balance needed by transfer service layer.
type Ledger interface {
	Balance() decimal.Decimal
	Deduct(amount decimal.Decimal) decimal.Decimal
}

// Reporter surfaces rejected forms and completed attempts.
type Reporter interface {
	Invalid(ctx context.Context, err error)
	Completed(ctx context.Context, attempt domain.Attempt) error
}

// Results provides access to completed attempts.
type Results interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Attempt, error)
}

// Service runs submission attempts from validation to outcome.
//
// Attempts are independent: nothing stops a second attempt while a first one
// is still sending, and each one reaches exactly one terminal state.
type Service struct {
	gateway  Gateway
	ledger   Ledger
	reporter Reporter
	results  Results
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]domain.Attempt
	wg       sync.WaitGroup
}

// New returns transfer service struct to manage transfer business logic.
func New(g Gateway, l Ledger, rep Reporter, res Results) *Service {
	return &Service{
		gateway:  g,
		ledger:   l,
		reporter: rep,
		results:  res,
		now:      func() time.Time { return time.Now().UTC() },
		inFlight: make(map[uuid.UUID]domain.Attempt),
	}
}

func transition(a *domain.Attempt, to domain.State) error {
	if !domain.CanTransition(a.State, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, a.State, to)
	}

	a.State = to

	return nil
}

// Balance returns the current ledger balance.
func (s *Service) Balance(ctx context.Context) decimal.Decimal {
	return s.ledger.Balance()
}

// Review normalizes and validates the form without sending anything.
func (s *Service) Review(ctx context.Context, form domain.TransferForm) (domain.TransferRequest, error) {
	req, err := Validate(form, s.ledger.Balance())
	if err != nil {
		s.reporter.Invalid(ctx, err)
		return domain.TransferRequest{}, err
	}

	return req, nil
}

// Submit validates the form and, if it is valid, dispatches it to the
// transfer service. It returns as soon as the attempt is sending; the outcome
// is reported once the service answers.
func (s *Service) Submit(ctx context.Context, form domain.TransferForm) (domain.Attempt, error) {
	l := zerolog.Ctx(ctx)

	attempt := domain.Attempt{
		ID:        uuid.New(),
		State:     domain.StateIdle,
		CreatedAt: s.now(),
	}

	if err := transition(&attempt, domain.StateValidating); err != nil {
		l.Error().Err(err).Send()
		return domain.Attempt{}, err
	}

	req, err := s.Review(ctx, form)
	if err != nil {
		// The form goes back to idle and may be resubmitted.
		return domain.Attempt{}, err
	}

	attempt.Request = req

	for _, to := range []domain.State{domain.StateValid, domain.StateSending} {
		if err := transition(&attempt, to); err != nil {
			l.Error().Err(err).Send()
			return domain.Attempt{}, err
		}
	}

	s.mu.Lock()
	s.inFlight[attempt.ID] = attempt
	s.mu.Unlock()

	l.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("recipient", req.RecipientCanonical).
		Str("amount", req.AmountCanonical.String()).
		Msg("transfer sending")

	s.wg.Add(1)

	// Sending attempts cannot be cancelled, so the dispatch outlives the caller's context.
	go s.dispatch(context.WithoutCancel(ctx), attempt)

	return attempt, nil
}

func (s *Service) dispatch(ctx context.Context, attempt domain.Attempt) {
	defer s.wg.Done()

	l := zerolog.Ctx(ctx).With().Str("attempt_id", attempt.ID.String()).Logger()
	ctx = l.WithContext(ctx)

	res, err := s.gateway.Submit(ctx, attempt.Request.RecipientCanonical, attempt.Request.AmountCanonical)
	if err != nil {
		l.Warn().Err(err).Msg("transfer service error")
	}

	outcome := resolve(res, err)

	if outcome.Success {
		balance := s.ledger.Deduct(attempt.Request.AmountCanonical)
		l.Info().Str("balance", balance.String()).Msg("balance deducted")
	}

	if err := transition(&attempt, domain.StateCompleted); err != nil {
		l.Error().Err(err).Send()
	}

	completedAt := s.now()
	attempt.Outcome = &outcome
	attempt.CompletedAt = &completedAt

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reporter.Completed(ctx, attempt); err != nil {
		l.Error().Err(err).Msg("cannot report transfer outcome")
	}

	delete(s.inFlight, attempt.ID)
}

// resolve maps a transfer service answer onto an outcome. Errors and
// payloads without a success flag are failures.
func resolve(res domain.RemoteResponse, err error) domain.TransferOutcome {
	if err != nil {
		return domain.TransferOutcome{Success: false, Message: domain.MsgTransferFailed}
	}

	msg := res.Message
	if msg == "" && !res.Succeeded() {
		msg = domain.MsgTransferFailed
	}

	return domain.TransferOutcome{Success: res.Succeeded(), Message: msg}
}

// Get returns the attempt with the given id, sending or completed.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Attempt, error) {
	s.mu.Lock()
	attempt, ok := s.inFlight[id]
	s.mu.Unlock()

	if ok {
		return attempt, nil
	}

	return s.results.Get(ctx, id)
}

// InFlight returns the number of attempts still waiting for the transfer service.
func (s *Service) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.inFlight)
}

// Wait blocks until every dispatched attempt has completed.
func (s *Service) Wait() {
	s.wg.Wait()
}
