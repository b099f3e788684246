// Package ledger holds the session balance.
package ledger

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger owns a single non-negative balance.
//
// The balance is only ever lowered through Deduct. Deductions from attempts
// that resolve concurrently are applied in the order they arrive.
type Ledger struct {
	mu      sync.RWMutex
	balance decimal.Decimal
}

// New returns a ledger starting at initial. A negative initial balance is
// floored at zero.
func New(initial decimal.Decimal) *Ledger {
	if initial.IsNegative() {
		initial = decimal.Zero
	}

	return &Ledger{balance: initial}
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balance
}

// Deduct lowers the balance by amount, clamping at zero. It never fails;
// callers that need an exact debit check amount against Balance first.
// Non-positive amounts leave the balance unchanged.
func (l *Ledger) Deduct(amount decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !amount.IsPositive() {
		return l.balance
	}

	l.balance = decimal.Max(decimal.Zero, l.balance.Sub(amount))

	return l.balance
}
