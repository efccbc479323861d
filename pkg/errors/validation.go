package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds entity identifiers in a model.
const MaxIDLength = 256

// ValidateID validates an entity identifier. Identifiers are opaque, but they
// end up in DOT documents, cache keys and handle ids, so control characters
// and the member separator are rejected.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidModel, "id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidModel, "id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModel, "id %q contains control characters", id)
		}
	}
	if strings.Contains(id, "/") {
		return New(ErrCodeInvalidModel, "id %q cannot contain '/'", id)
	}
	return nil
}

// ValidatePath validates a model or output file path given on the command
// line or in a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
