package errors

import (
	"slices"
	"strings"
)

// maxPathLength bounds expansion paths accepted from the host.
const maxPathLength = 4096

// ValidatePath validates a node path received from outside the process
// (a dot click relayed by the host, a --expand flag).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - Must start at the root segment
//
// Object keys may be empty or hold separators and control characters, so
// segments are not checked here; callers look the path up in the tree.
func ValidatePath(path, root string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if path != root && !strings.HasPrefix(path, root+"/") {
		return New(ErrCodeInvalidPath, "path must start with %q", root)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateOneOf checks that value is one of allowed, returning an error with
// the given code otherwise. The error lists the allowed values in order.
func ValidateOneOf(code Code, what, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s: %q (must be one of: %s)", what, value, strings.Join(allowed, ", "))
}
