package recipient

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-petr/pet-transfer/internal/domain"
)

const minLength = 5

var (
	phonePattern = regexp.MustCompile(`^(\+?\d{1,3})?\d{10,14}$`)
	ibanPattern  = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{1,30}$`)
)

// IsPhone reports whether canonical looks like a phone number.
func IsPhone(canonical string) bool {
	return phonePattern.MatchString(canonical)
}

// IsIBAN reports whether canonical looks like an IBAN.
func IsIBAN(canonical string) bool {
	return ibanPattern.MatchString(canonical)
}

// Validate checks a canonical recipient. The first failing rule wins.
func Validate(canonical string) *domain.ValidationError {
	if n := utf8.RuneCountInString(canonical); n < minLength {
		code := domain.CodeTooShort
		if n == 0 {
			code = domain.CodeEmpty
		}

		return &domain.ValidationError{
			Field:   domain.FieldRecipient,
			Code:    code,
			Message: domain.MsgRecipientRequired,
		}
	}

	if !IsPhone(canonical) && !IsIBAN(canonical) {
		return &domain.ValidationError{
			Field:   domain.FieldRecipient,
			Code:    domain.CodeFormatInvalid,
			Message: domain.MsgRecipientInvalid,
		}
	}

	return nil
}
