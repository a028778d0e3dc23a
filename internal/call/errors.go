package call

import "errors"

var (
	// ErrMissingPhone is returned when the phone_number field is absent or empty
	ErrMissingPhone = errors.New("phone number is required")

	// ErrInvalidPhone is returned when the phone number does not match the
	// accepted format
	ErrInvalidPhone = errors.New("phone number must be in international format, e.g. +14155552671")
)
