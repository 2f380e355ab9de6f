package placeholder_test

import (
	"strings"
	"testing"

	"github.com/valpere/globaltalk/internal/placeholder"
)

func TestProtect_NoMarkup(t *testing.T) {
	text := "Hello, world!"
	got, markers := placeholder.Protect(text)
	if got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
	if len(markers) != 0 {
		t.Errorf("expected 0 markers, got %d", len(markers))
	}
}

func TestProtect_LiteralMarkerDisablesProtection(t *testing.T) {
	text := "Type [PH0] and see https://x.io"
	got, markers := placeholder.Protect(text)
	if got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
	if len(markers) != 0 {
		t.Fatalf("expected no markers, got %v", markers)
	}

	translated := "Schreibe [PH0] und siehe https://x.io"
	if restored := placeholder.Restore(translated, markers); restored != translated {
		t.Errorf("expected the literal marker to survive, got %q", restored)
	}
}

func TestProtect(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		protected string
		markers   []string
	}{
		{
			name:      "url",
			input:     "See https://example.com/a?b=1 for details.",
			protected: "See [PH0] for details.",
			markers:   []string{"https://example.com/a?b=1"},
		},
		{
			name:      "url followed by punctuation",
			input:     "Visit www.example.org, then reply.",
			protected: "Visit [PH0], then reply.",
			markers:   []string{"www.example.org"},
		},
		{
			name:      "mention",
			input:     "Ask @support_team about it",
			protected: "Ask [PH0] about it",
			markers:   []string{"@support_team"},
		},
		{
			name:      "email is not a mention",
			input:     "Write to anna@example.com",
			protected: "Write to [PH0]",
			markers:   []string{"anna@example.com"},
		},
		{
			name:      "inline code",
			input:     "Use `fmt.Println` to print.",
			protected: "Use [PH0] to print.",
			markers:   []string{"`fmt.Println`"},
		},
		{
			name:      "fenced code keeps its url",
			input:     "Run\n```\ncurl https://example.com\n```\nnow",
			protected: "Run\n[PH0]\nnow",
			markers:   []string{"```\ncurl https://example.com\n```"},
		},
		{
			name:      "html tags",
			input:     "<b>Hello</b> world",
			protected: "[PH0]Hello[PH1] world",
			markers:   []string{"<b>", "</b>"},
		},
		{
			name:      "comparison is not a tag",
			input:     "if a < b > c",
			protected: "if a < b > c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, markers := placeholder.Protect(tt.input)
			if got != tt.protected {
				t.Errorf("Protect(%q) = %q, want %q", tt.input, got, tt.protected)
			}
			if strings.Join(markers, "|") != strings.Join(tt.markers, "|") {
				t.Errorf("markers = %q, want %q", markers, tt.markers)
			}
		})
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>world</b></p>",
		"Before\n```go\nfmt.Println(\"hi\")\n```\nAfter",
		"Ping @globaltalk_bot or open https://t.me/globaltalk_bot",
	}
	for _, original := range inputs {
		protected, markers := placeholder.Protect(original)
		if restored := placeholder.Restore(protected, markers); restored != original {
			t.Errorf("round-trip failed:\n  original: %q\n  restored: %q", original, restored)
		}
	}
}

func TestRestore_ReorderedMarkers(t *testing.T) {
	markers := []string{"@anna", "@ben"}
	got := placeholder.Restore("[PH1] und [PH0]", markers)
	if got != "@ben und @anna" {
		t.Errorf("unexpected restore %q", got)
	}
}

func TestRestore_OutOfRangeIndexIgnored(t *testing.T) {
	restored := placeholder.Restore("[PH99] some text", []string{"<p>"})
	if restored != "[PH99] some text" {
		t.Errorf("expected [PH99] to remain, got %q", restored)
	}
}

func TestValidate(t *testing.T) {
	markers := []string{"<p>", "</p>", "<b>"}

	if missing := placeholder.Validate("[PH0] a [PH1] b [PH2]", markers); len(missing) != 0 {
		t.Errorf("expected no missing markers, got %v", missing)
	}

	missing := placeholder.Validate("[PH0] some text", markers)
	if len(missing) != 2 || missing[0] != 1 || missing[1] != 2 {
		t.Errorf("expected missing [1 2], got %v", missing)
	}
}

func TestInstructionHint_MentionsMarkers(t *testing.T) {
	if !strings.Contains(placeholder.InstructionHint(), "[PHn]") {
		t.Error("expected hint to name the marker format")
	}
}
