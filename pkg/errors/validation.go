package errors

import (
	"strings"
	"unicode"
)

// Limits for caller-supplied strings.
const (
	MaxTaskIDLength = 256
	MaxLabelLength  = 1024
)

// ValidateTaskID checks a task id read from a file or request body.
//
// Ids are opaque to the engine, so the rules only keep them printable and
// bounded:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateTaskID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTask, "task id cannot be empty")
	}
	if len(id) > MaxTaskIDLength {
		return New(ErrCodeInvalidTask, "task id too long (max %d characters)", MaxTaskIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTask, "task id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateLabel checks an optional display label.
func ValidateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidTask, "label too long (max %d characters)", MaxLabelLength)
	}
	if strings.ContainsRune(label, '\x00') {
		return New(ErrCodeInvalidTask, "label contains a null byte")
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// ValidateURL validates a backend connection URL against the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
