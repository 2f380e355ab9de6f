// Package placeholder hides parts of a chat message that must survive
// translation untouched (code, links, e-mail addresses, @mentions, HTML
// tags). Protect swaps them for numbered markers ([PH0], [PH1], ...) and
// Restore puts them back into the model's answer.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// patterns are applied in order; earlier patterns claim their text first so
// a URL inside a code span stays part of the code marker.
var patterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```.*?```"),
	regexp.MustCompile("`[^`\n]+`"),
	regexp.MustCompile(`<[^<>\s][^<>]*>`),
	regexp.MustCompile(`(?:https?://|www\.)[^\s<>"]*[^\s<>".,;:!?)\]]`),
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+`),
	regexp.MustCompile(`@[A-Za-z0-9_]{3,32}\b`),
}

var rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)

// Protect replaces protected spans with markers and returns the rewritten
// text together with the captured originals, indexed by marker number.
// Text that already contains marker-shaped runs is returned unchanged, as
// Restore could not tell them apart from its own markers.
func Protect(text string) (string, []string) {
	if rePlaceholder.MatchString(text) {
		return text, nil
	}
	var markers []string
	for _, re := range patterns {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			markers = append(markers, match)
			return marker(len(markers) - 1)
		})
	}
	return text, markers
}

// Restore substitutes markers in text with the originals captured by
// Protect. Unknown indices are left as they are.
func Restore(text string, markers []string) string {
	if len(markers) == 0 {
		return text
	}
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		idx, err := strconv.Atoi(match[3 : len(match)-1])
		if err != nil || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// InstructionHint is appended to prompts that contain markers.
func InstructionHint() string {
	return "Keep every [PHn] marker exactly as it appears. Do not translate, move or remove them."
}

// Validate returns the indices of markers missing from text.
func Validate(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, marker(i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

func marker(i int) string {
	return fmt.Sprintf("[PH%d]", i)
}
