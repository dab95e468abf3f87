package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path (fixtures, overrides, output files).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
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

// ValidateRunID validates a stored run identifier before it reaches a store
// backend. Run IDs are UUIDs, but any short token without separators is accepted.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run ID cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "run ID too long (max 64 characters)")
	}
	if strings.ContainsAny(id, "/\\.:") {
		return New(ErrCodeInvalidInput, "run ID contains invalid characters: %q", id)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "run ID contains invalid characters: %q", id)
		}
	}
	return nil
}

// RequireFinite returns a SERIALIZATION_FAILURE error naming field when v is
// NaN or infinite.
func RequireFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeSerialization, "%s is not a finite number (%v)", field, v)
	}
	return nil
}
