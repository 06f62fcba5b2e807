package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the default maximum length for one-line
// service purposes in tool output and CLI tables.
const DefaultDescriptionMaxLen = 80

// DefaultBodyExcerptLen bounds how much of an upstream response body is
// carried inside an error message.
const DefaultBodyExcerptLen = 200

// MinTruncateLen is the minimum maxLen value for TruncateDescription.
// Values smaller than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// TruncateDescription truncates a string to maxLen characters and ensures single-line output.
// Whitespace runs (including newlines) collapse into single spaces and "..." is
// appended when the text was cut. Operates on runes, not bytes.
//
// Args:
//   - s: The string to truncate
//   - maxLen: Maximum length of the result (including "..." if truncated)
//
// Returns:
//   - Truncated and sanitized string
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// FirstSentence returns the first line or sentence of a longer description,
// which is what related-service summaries show as the service's purpose.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ". "); i >= 0 {
		s = s[:i+1]
	}
	return TruncateDescription(s, DefaultDescriptionMaxLen)
}
