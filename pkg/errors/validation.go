package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxTrackNameLength bounds track names accepted from files and the API.
const maxTrackNameLength = 256

// ValidateTrackName validates a track name for safety.
// Track names end up in cache keys, log lines and file names, so the rules
// are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateTrackName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "track name cannot be empty")
	}

	if len(name) > maxTrackNameLength {
		return New(ErrCodeInvalidInput, "track name too long (max %d characters)", maxTrackNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "track name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "track name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateWindow validates an inclusive coordinate window.
func ValidateWindow(start, end int) error {
	if end < start {
		return New(ErrCodeInvalidWindow, "window end %d is before start %d", end, start)
	}
	return nil
}

// ValidateWidth validates a rendering width or spacing value.
// Zero is allowed; negative, NaN and infinite values are not.
func ValidateWidth(name string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if w < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %g)", name, w)
	}
	return nil
}
