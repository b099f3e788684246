// Package currencypkg provides common currency related functionality for apps.
package currencypkg

// EUR is the only currency balances are kept in.
const EUR = "EUR"

// Symbol returns the display symbol of a currency code.
func Symbol(code string) string {
	switch code {
	case EUR:
		return "€"
	}

	return code
}
