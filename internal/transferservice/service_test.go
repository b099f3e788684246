package transferservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/go-petr/pet-transfer/internal/domain"
	"github.com/go-petr/pet-transfer/internal/ledger"
	"github.com/go-petr/pet-transfer/internal/reporter"
	"github.com/go-petr/pet-transfer/internal/resultrepo"
)

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return fmt.Sprintf("is decimal equal to %s", m.want)
}

func eqDecimal(s string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func remote(success bool, msg string) domain.RemoteResponse {
	return domain.RemoteResponse{Success: &success, Message: msg}
}

type fixture struct {
	service *Service
	ledger  *ledger.Ledger
	results *resultrepo.RepoMem
}

func newFixture(gateway Gateway, balance string) fixture {
	l := ledger.New(decimal.RequireFromString(balance))
	results := resultrepo.NewRepoMem()

	return fixture{
		service: New(gateway, l, reporter.New(results), results),
		ledger:  l,
		results: results,
	}
}

func TestSubmit(t *testing.T) {
	testCases := []struct {
		name          string
		balance       string
		form          domain.TransferForm
		buildStubs    func(gateway *MockGateway)
		checkResponse func(t *testing.T, f fixture, attempt domain.Attempt, err error)
	}{
		{
			name:    "OK rounds amount and deducts on success",
			balance: "1000",
			form:    domain.TransferForm{Recipient: "6912345678", Amount: 50.123},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().
					Submit(gomock.Any(), gomock.Eq("+306912345678"), eqDecimal("50.1")).
					Times(1).
					Return(remote(true, domain.MsgTransferComplete), nil)
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.StateSending, attempt.State)
				require.Equal(t, "+306912345678", attempt.Request.RecipientCanonical)
				require.True(t, attempt.Request.AmountCanonical.Equal(decimal.RequireFromString("50.1")))

				f.service.Wait()

				require.True(t, f.ledger.Balance().Equal(decimal.RequireFromString("949.9")), f.ledger.Balance().String())

				got, err := f.results.Get(context.Background(), attempt.ID)
				require.NoError(t, err)
				require.Equal(t, domain.StateCompleted, got.State)
				require.Equal(t, &domain.TransferOutcome{Success: true, Message: domain.MsgTransferComplete}, got.Outcome)
				require.NotNil(t, got.CompletedAt)
			},
		},
		{
			name:    "Declared failure leaves balance",
			balance: "1000",
			form:    domain.TransferForm{Recipient: "GR1234567890123456789012345", Amount: "100"},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().
					Submit(gomock.Any(), gomock.Eq("GR1234567890123456789012345"), eqDecimal("100")).
					Times(1).
					Return(remote(false, "Transfer failed - recipient not found"), nil)
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.NoError(t, err)

				f.service.Wait()

				require.True(t, f.ledger.Balance().Equal(decimal.NewFromInt(1000)))

				got, err := f.results.Get(context.Background(), attempt.ID)
				require.NoError(t, err)
				require.Equal(t, &domain.TransferOutcome{Success: false, Message: "Transfer failed - recipient not found"}, got.Outcome)
			},
		},
		{
			name:    "Missing success flag is a failure",
			balance: "1000",
			form:    domain.TransferForm{Recipient: "+306912345678", Amount: 50.5},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().
					Submit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.RemoteResponse{Message: "Some message"}, nil)
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.NoError(t, err)

				f.service.Wait()

				require.True(t, f.ledger.Balance().Equal(decimal.NewFromInt(1000)))

				got, err := f.results.Get(context.Background(), attempt.ID)
				require.NoError(t, err)
				require.Equal(t, &domain.TransferOutcome{Success: false, Message: "Some message"}, got.Outcome)
			},
		},
		{
			name:    "Gateway error is a failure",
			balance: "1000",
			form:    domain.TransferForm{Recipient: "+306912345678", Amount: 10},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().
					Submit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.RemoteResponse{}, errors.New("connection reset"))
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.NoError(t, err)

				f.service.Wait()

				require.True(t, f.ledger.Balance().Equal(decimal.NewFromInt(1000)))

				got, err := f.results.Get(context.Background(), attempt.ID)
				require.NoError(t, err)
				require.Equal(t, &domain.TransferOutcome{Success: false, Message: domain.MsgTransferFailed}, got.Outcome)
			},
		},
		{
			name:    "Insufficient balance",
			balance: "10",
			form:    domain.TransferForm{Recipient: "+306912345678", Amount: 50},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.ErrorIs(t, err, &domain.ValidationError{Code: domain.CodeInsufficientBalance})
				require.Equal(t, domain.MsgInsufficientBalance, reporter.Message(err))
				require.Empty(t, attempt)
				require.True(t, f.ledger.Balance().Equal(decimal.NewFromInt(10)))
				require.Zero(t, f.results.Len())
			},
		},
		{
			name:    "Empty recipient",
			balance: "1000",
			form:    domain.TransferForm{Recipient: "", Amount: 50},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.ErrorIs(t, err, &domain.ValidationError{Code: domain.CodeEmpty})
				require.Equal(t, domain.MsgRecipientRequired, reporter.Message(err))
				require.Zero(t, f.service.InFlight())
			},
		},
		{
			name:    "Invalid amount",
			balance: "1000",
			form:    domain.TransferForm{Recipient: "+306912345678", Amount: "abc"},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, f fixture, attempt domain.Attempt, err error) {
				require.ErrorIs(t, err, &domain.ValidationError{Code: domain.CodeNotANumber})
				require.Equal(t, domain.MsgAmountNotANumber, reporter.Message(err))
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			gateway := NewMockGateway(ctrl)
			tc.buildStubs(gateway)

			f := newFixture(gateway, tc.balance)

			attempt, err := f.service.Submit(context.Background(), tc.form)
			tc.checkResponse(t, f, attempt, err)
		})
	}
}

func TestSubmitConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	gateway.EXPECT().
		Submit(gomock.Any(), gomock.Eq("+306912345678"), eqDecimal("50")).
		Times(3).
		Return(remote(true, domain.MsgTransferComplete), nil)

	f := newFixture(gateway, "1000")

	var (
		mu  sync.Mutex
		ids = make(map[uuid.UUID]struct{})
	)

	g, ctx := errgroup.WithContext(context.Background())

	for i := 0; i < 3; i++ {
		g.Go(func() error {
			attempt, err := f.service.Submit(ctx, domain.TransferForm{Recipient: "6912345678", Amount: 50})
			if err != nil {
				return err
			}

			mu.Lock()
			ids[attempt.ID] = struct{}{}
			mu.Unlock()

			return nil
		})
	}

	require.NoError(t, g.Wait())

	f.service.Wait()

	require.Len(t, ids, 3)
	require.Equal(t, 3, f.results.Len())
	require.Zero(t, f.service.InFlight())
	require.True(t, f.ledger.Balance().Equal(decimal.NewFromInt(850)), f.ledger.Balance().String())

	for id := range ids {
		got, err := f.results.Get(context.Background(), id)
		require.NoError(t, err)
		require.True(t, got.Outcome.Success)
	}
}

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})

	gateway := NewMockGateway(ctrl)
	gateway.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(ctx context.Context, recipient string, amount decimal.Decimal) (domain.RemoteResponse, error) {
			<-release
			return remote(true, domain.MsgTransferComplete), nil
		})

	f := newFixture(gateway, "1000")
	ctx := context.Background()

	attempt, err := f.service.Submit(ctx, domain.TransferForm{Recipient: "6912345678", Amount: 1})
	require.NoError(t, err)

	got, err := f.service.Get(ctx, attempt.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateSending, got.State)
	require.Nil(t, got.Outcome)
	require.Equal(t, 1, f.service.InFlight())

	close(release)
	f.service.Wait()

	got, err = f.service.Get(ctx, attempt.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateCompleted, got.State)
	require.True(t, got.Outcome.Success)

	_, err = f.service.Get(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrAttemptNotFound)
}

func TestSubmitFailureNeverDeducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	l := NewMockLedger(ctrl)
	rep := NewMockReporter(ctrl)
	results := NewMockResults(ctrl)

	l.EXPECT().Balance().Times(1).Return(decimal.NewFromInt(1000))
	l.EXPECT().Deduct(gomock.Any()).Times(0)

	gateway.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(remote(false, domain.MsgTransferFailed), nil)

	var reported domain.Attempt

	rep.EXPECT().
		Completed(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(ctx context.Context, attempt domain.Attempt) error {
			reported = attempt
			return nil
		})

	s := New(gateway, l, rep, results)

	attempt, err := s.Submit(context.Background(), domain.TransferForm{Recipient: "+306912345678", Amount: "20"})
	require.NoError(t, err)

	s.Wait()

	require.Equal(t, attempt.ID, reported.ID)
	require.Equal(t, domain.StateCompleted, reported.State)
	require.False(t, reported.Outcome.Success)
}

func TestReviewReportsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := NewMockLedger(ctrl)
	rep := NewMockReporter(ctrl)

	l.EXPECT().Balance().Times(1).Return(decimal.NewFromInt(1000))
	rep.EXPECT().
		Invalid(gomock.Any(), gomock.Any()).
		Times(1)

	s := New(NewMockGateway(ctrl), l, rep, NewMockResults(ctrl))

	req, err := s.Review(context.Background(), domain.TransferForm{Recipient: "invalid", Amount: 10})
	require.Empty(t, req)

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	require.Len(t, fe, 1)
	require.Equal(t, domain.CodeFormatInvalid, fe[0].Code)
}
