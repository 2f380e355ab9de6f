package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/valpere/globaltalk/internal/chunker"
)

func TestSplit_ShortText(t *testing.T) {
	parts := chunker.Split("Hello, world!", 100)
	if len(parts) != 1 || parts[0] != "Hello, world!" {
		t.Errorf("expected single unchanged part, got %q", parts)
	}
}

func TestSplit_Blank(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		if parts := chunker.Split(text, 10); len(parts) != 0 {
			t.Errorf("Split(%q) = %q, want no parts", text, parts)
		}
	}
}

func TestSplit_DefaultLimit(t *testing.T) {
	text := strings.Repeat("a", chunker.MessageLimit)
	if parts := chunker.Split(text, 0); len(parts) != 1 {
		t.Errorf("expected text at the limit to fit in one part, got %d", len(parts))
	}
	if parts := chunker.Split(text+"b", 0); len(parts) != 2 {
		t.Errorf("expected one rune over the limit to need two parts, got %d", len(parts))
	}
}

func TestSplit_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "paragraph",
			text:  "First paragraph.\n\nSecond paragraph.",
			limit: 25,
			want:  []string{"First paragraph.", "Second paragraph."},
		},
		{
			name:  "line break",
			text:  "line one\nline two",
			limit: 12,
			want:  []string{"line one", "line two"},
		},
		{
			name:  "sentence",
			text:  "One sentence. Another one here",
			limit: 20,
			want:  []string{"One sentence.", "Another one here"},
		},
		{
			name:  "word",
			text:  "alpha beta gamma",
			limit: 12,
			want:  []string{"alpha beta", "gamma"},
		},
		{
			name:  "hard cut",
			text:  "abcdefghij",
			limit: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunker.Split(tt.text, tt.limit)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Split(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestSplit_CountsRunes(t *testing.T) {
	text := strings.Repeat("привет ", 20)
	parts := chunker.Split(text, 30)
	for i, p := range parts {
		if n := utf8.RuneCountInString(p); n > 30 {
			t.Errorf("part %d has %d runes, limit 30", i, n)
		}
	}
	if strings.Join(strings.Fields(strings.Join(parts, " ")), " ") != strings.TrimSpace(text) {
		t.Error("expected all words to survive splitting")
	}
}

func TestSplit_LongTextRespectsLimit(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	parts := chunker.Split(text, chunker.MessageLimit)
	if len(parts) < 3 {
		t.Fatalf("expected at least 3 parts, got %d", len(parts))
	}
	for i, p := range parts {
		if utf8.RuneCountInString(p) > chunker.MessageLimit {
			t.Errorf("part %d exceeds the message limit", i)
		}
		if !strings.HasSuffix(p, ".") {
			t.Errorf("part %d should end on a sentence boundary: %q", i, p[len(p)-20:])
		}
	}
}
