package service

import "errors"

// Gateway error classes. Handlers match them with errors.Is / errors.As.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrMissingCredential       = errors.New("provider credential not configured")
	ErrProviderAuth            = errors.New("provider rejected credential")
	ErrMalformedProviderOutput = errors.New("malformed provider output")
	ErrIncompleteResponse      = errors.New("incomplete provider response")
)

// InputError describes why client-supplied text was rejected
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalidInput(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
