// Package chunker splits outgoing text into pieces that fit in a single
// chat message.
package chunker

import (
	"strings"
	"unicode"
)

// MessageLimit is the longest message the chat platform accepts, in runes.
const MessageLimit = 4096

// Split cuts text into parts of at most limit runes. Cuts are made, in
// order of preference, after a blank line, after a line break, after
// sentence-ending punctuation, at whitespace, and finally mid-word.
// Parts are trimmed; blank text yields no parts. limit <= 0 means
// MessageLimit.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}

	rest := []rune(strings.TrimSpace(text))
	var parts []string
	for len(rest) > limit {
		cut := splitPoint(rest[:limit])
		if part := strings.TrimSpace(string(rest[:cut])); part != "" {
			parts = append(parts, part)
		}
		rest = trimLeftSpace(rest[cut:])
	}
	if len(rest) > 0 {
		parts = append(parts, string(rest))
	}
	return parts
}

// splitPoint returns the rune index at which window should be cut. It is
// always at least 1.
func splitPoint(window []rune) int {
	n := len(window)

	for i := n - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	for i := n - 1; i > 0; i-- {
		if window[i] == '\n' {
			return i + 1
		}
	}
	for i := n - 2; i > 0; i-- {
		switch window[i] {
		case '.', '!', '?', '。', '！', '？':
			if unicode.IsSpace(window[i+1]) {
				return i + 1
			}
		}
	}
	for i := n - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return n
}

func trimLeftSpace(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}
	return r
}
