package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier for safety and correctness.
// IDs flow into SVG id attributes, cache keys and store documents, so the
// rules are strict:
//
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //) or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSpec, "node ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidSpec, "node ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSpec, "node ID contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidSpec, "node ID contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputPath validates an artifact output path. It rejects empty
// paths and paths whose base name is hidden or empty, and requires the
// extension to be one of the allowed formats when allowed is non-empty.
func ValidateOutputPath(path string, allowed ...string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return New(ErrCodeInvalidInput, "output path has no file name: %s", path)
	}

	if len(allowed) == 0 {
		return nil
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported output format %q (allowed: %s)", ext, strings.Join(allowed, ", "))
}
