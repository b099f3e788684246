// Package recipient normalizes and validates transfer recipients.
//
// A recipient is either a phone number or an IBAN. Raw input is first brought
// into canonical form with Normalize and then checked with Validate.
package recipient

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	greekCallingCode = "+30"
	greekIBANPrefix  = "GR"
	ibanLength       = 27
)

var greekMobile = regexp.MustCompile(`^69\d{8}$`)

// Normalize rewrites raw recipient input into its canonical form.
//
// Whitespace is removed and letters are upper-cased. A Greek local mobile
// number gets the +30 calling code. Any 27 character value that does not
// start with GR is treated as a Greek IBAN typed without its country code:
// GR is prepended and the value is cut back to 27 characters.
//
// Normalize is idempotent.
func Normalize(raw string) string {
	value := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw))

	if greekMobile.MatchString(value) {
		value = greekCallingCode + value
	}

	// NOTE: length alone triggers this, non-IBAN input of 27 characters is rewritten too.
	if runes := []rune(value); len(runes) == ibanLength && !strings.HasPrefix(value, greekIBANPrefix) {
		value = greekIBANPrefix + string(runes[:ibanLength-len(greekIBANPrefix)])
	}

	return value
}
