package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds graph and session names accepted from users.
const maxNameLength = 256

// ValidateGraphName validates a saved-graph name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names (after trimming whitespace)
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateGraphName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "graph name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "graph name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "graph name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "graph name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateWeight checks that an edge weight is a positive integer.
func ValidateWeight(weight int) error {
	if weight <= 0 {
		return New(ErrCodeInvalidInput, "edge weight must be positive, got %d", weight)
	}
	return nil
}

// unsafeFilenameRegex matches every run of characters that may not appear in
// an exported file name.
var unsafeFilenameRegex = regexp.MustCompile(`[^a-z0-9]`)

// SanitizeFilename turns a display name into a lowercase file stem.
// Every character outside [a-z0-9] becomes an underscore, so
// "My Custom Network" becomes "my_custom_network".
func SanitizeFilename(name string) string {
	stem := unsafeFilenameRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	if stem == "" {
		return "graph"
	}
	return stem
}
