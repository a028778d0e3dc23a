package call

import (
	"regexp"
	"strings"
)

// phonePattern is the E.164-style format honored end to end: optional leading
// +, first digit 1-9, at most 15 digits. Leading zeros and overlong numbers
// are rejected.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks raw against the accepted phone format and returns it
// unchanged on success. Validating an already-valid number is a no-op, so the
// check is safe to repeat.
func ValidatePhone(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrMissingPhone
	}
	if !phonePattern.MatchString(value) {
		return "", ErrInvalidPhone
	}
	return value, nil
}

// NormalizeE164 prefixes + when absent so providers always see a full E.164
// number. Must only be called with an already-validated value.
func NormalizeE164(value string) string {
	if strings.HasPrefix(value, "+") {
		return value
	}
	return "+" + value
}
