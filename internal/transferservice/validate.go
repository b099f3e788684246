package transferservice

import (
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-transfer/internal/amount"
	"github.com/go-petr/pet-transfer/internal/domain"
	"github.com/go-petr/pet-transfer/internal/recipient"
)

// Validate normalizes and checks a transfer form against balance.
//
// Recipient and amount are both checked so every failing field is reported.
// The balance check only runs once both fields are structurally valid.
// On failure the returned error is a domain.FieldErrors.
func Validate(form domain.TransferForm, balance decimal.Decimal) (domain.TransferRequest, error) {
	canonical := recipient.Normalize(form.Recipient)

	var fe domain.FieldErrors

	if err := recipient.Validate(canonical); err != nil {
		fe = append(fe, err)
	}

	amt, err := amount.Validate(form.Amount)
	if err != nil {
		fe = append(fe, err)
	}

	if len(fe) > 0 {
		return domain.TransferRequest{}, fe
	}

	if err := amount.CheckBalance(amt, balance); err != nil {
		return domain.TransferRequest{}, domain.FieldErrors{err}
	}

	return domain.TransferRequest{
		RecipientRaw:       form.Recipient,
		RecipientCanonical: canonical,
		AmountRaw:          form.Amount,
		AmountCanonical:    amt,
	}, nil
}
