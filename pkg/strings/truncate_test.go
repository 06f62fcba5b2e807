package strings

import (
	"testing"
)

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "orders", maxLen: 10, expected: "orders"},
		{name: "exact length unchanged", input: "orders", maxLen: 6, expected: "orders"},
		{name: "long string truncated", input: "owns the order lifecycle end to end", maxLen: 15, expected: "owns the ord..."},
		{name: "newlines collapsed", input: "owns\n\norders", maxLen: 20, expected: "owns orders"},
		{name: "tabs and spaces collapsed", input: "owns\t\t  orders", maxLen: 20, expected: "owns orders"},
		{name: "unicode safe", input: "über-schnelle Bestellung", maxLen: 8, expected: "über-..."},
		{name: "tiny maxLen clamped", input: "abcdefgh", maxLen: 1, expected: "a..."},
		{name: "empty", input: "", maxLen: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateDescription(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("TruncateDescription(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Owns orders. Talks to payments.", "Owns orders."},
		{"Owns orders\nsecond line", "Owns orders"},
		{"  single line  ", "single line"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FirstSentence(tt.input); got != tt.expected {
			t.Errorf("FirstSentence(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
