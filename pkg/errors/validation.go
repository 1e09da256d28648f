package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds free-text species input.
const maxNameLength = 200

// ValidateSpeciesName rejects input that cannot be sent to the taxonomy
// service: empty or whitespace-only names, control characters and overly
// long strings. The returned name is trimmed.
func ValidateSpeciesName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", New(ErrCodeInvalidInput, "Please enter a species name first.")
	}

	if len(name) > maxNameLength {
		return "", New(ErrCodeInvalidInput, "species name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidInput, "species name contains invalid control characters")
		}
	}
	return name, nil
}
