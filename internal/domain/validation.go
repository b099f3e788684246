package domain

import "strings"

// Form field names.
const (
	FieldRecipient = "recipient"
	FieldAmount    = "amount"
)

// ValidationCode classifies a validation failure.
type ValidationCode string

// Validation codes.
const (
	CodeEmpty               ValidationCode = "Empty"
	CodeTooShort            ValidationCode = "TooShort"
	CodeFormatInvalid       ValidationCode = "FormatInvalid"
	CodeNonPositiveAmount   ValidationCode = "NonPositiveAmount"
	CodeNotANumber          ValidationCode = "NotANumber"
	CodeInsufficientBalance ValidationCode = "InsufficientBalance"
)

// User-facing validation messages.
const (
	MsgRecipientRequired   = "Please enter an IBAN or phone number to continue."
	MsgRecipientInvalid    = "Enter a valid phone number or IBAN"
	MsgAmountNotANumber    = "Amount must be a number"
	MsgAmountNonPositive   = "Amount must be greater than 0."
	MsgAmountFormat        = "Amount must have at most one decimal place."
	MsgInsufficientBalance = "Insufficient balance"
)

// ValidationError describes why a single form field was rejected.
type ValidationError struct {
	Field   string         `json:"field"`
	Code    ValidationCode `json:"code"`
	Message string         `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError carrying the same code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// FieldErrors holds every field failure of one validation pass,
// ordered recipient before amount.
type FieldErrors []*ValidationError

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, e := range fe {
		msgs = append(msgs, e.Field+": "+e.Message)
	}

	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (fe FieldErrors) Unwrap() []error {
	errs := make([]error, 0, len(fe))
	for _, e := range fe {
		errs = append(errs, e)
	}

	return errs
}

// Field returns the failure recorded for name, if any.
func (fe FieldErrors) Field(name string) (*ValidationError, bool) {
	for _, e := range fe {
		if e.Field == name {
			return e, true
		}
	}

	return nil, false
}

// Map returns the failures as field name to message.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Message
	}

	return m
}
