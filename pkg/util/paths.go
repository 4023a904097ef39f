// Package util provides shared helpers for safe file-path validation and
// log-body truncation used across mockwire packages.
package util

import (
	"path/filepath"
	"strings"
)

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}

// SafeFilePath cleans a relative path and rejects path-traversal attempts.
// Returns the cleaned path and true when safe; "" and false when the path is
// absolute or escapes its base after cleaning.
func SafeFilePath(path string) (string, bool) {
	if filepath.IsAbs(path) {
		return "", false
	}
	return safeCleaned(path)
}

// SafeFilePathAllowAbsolute is SafeFilePath for config-sourced paths that may
// legitimately be absolute. Relative paths still must not escape their base.
func SafeFilePathAllowAbsolute(path string) (string, bool) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), true
	}
	return safeCleaned(path)
}

func safeCleaned(path string) (string, bool) {
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", false
	}
	return cleaned, true
}
