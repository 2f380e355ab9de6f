// Package postprocess strips the wrapping that language models put around
// an answer.
//
// Clean is applied to a candidate translation before it is verified and
// never removes a label or quotes that the original text carries itself;
// LanguageCode reduces a detection answer to a bare code.
package postprocess

import (
	"regexp"
	"strings"
)

var (
	// RE2 has no backreferences, so open and close tags are matched
	// independently.
	reasoningBlock = regexp.MustCompile(`(?is)<(?:think|thinking|reasoning|reflection)>.*?</(?:think|thinking|reasoning|reflection)>`)
	// A block the model never closed runs to the end of the answer.
	openReasoning = regexp.MustCompile(`(?is)<(?:think|thinking|reasoning|reflection)>.*$`)

	// answerLabel matches a leading "Translation:" style label, including
	// the "Translated text (in de):" cue that ends the translation prompt.
	// A colon is required so that ordinary sentences are left alone.
	answerLabel = regexp.MustCompile(`(?i)^(?:(?:sure|certainly|of course)[,.!]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+)?(?:translated text|translation)(?:\s*\(in [^)\n]*\))?\s*:\s*`)

	// leadingLabel matches a short "Word:" opening in the original text,
	// whose translation is a label of its own.
	leadingLabel = regexp.MustCompile(`^[^\s:][^:\n]{0,40}:(?:\s|$)`)
)

// closingQuote maps an opening quote to the one that must end the answer.
var closingQuote = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'«':  '»',
	'“':  '”',
	'„':  '“',
	'‘':  '’',
	'「':  '」',
}

// Clean removes reasoning blocks from answer and trims it. A leading answer
// label is removed only when original does not open with a label, and one
// pair of quotes wrapping the answer only when original is not quoted.
func Clean(answer, original string) string {
	answer = stripReasoning(answer)
	original = strings.TrimSpace(original)
	if !leadingLabel.MatchString(original) {
		answer = stripLabel(answer)
	}
	if _, quoted := unwrapQuotes(original); !quoted {
		answer = stripQuotes(answer)
	}
	return strings.TrimSpace(answer)
}

func stripReasoning(text string) string {
	text = reasoningBlock.ReplaceAllString(text, "")
	text = openReasoning.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func stripLabel(text string) string {
	if loc := answerLabel.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}
	return text
}

// stripQuotes unwraps text only when the closing quote does not also
// occur inside, so `"Hi," she said, "bye"` keeps its quotes.
func stripQuotes(text string) string {
	inner, ok := unwrapQuotes(text)
	if !ok {
		return text
	}
	runes := []rune(text)
	if strings.ContainsRune(inner, runes[len(runes)-1]) {
		return text
	}
	return strings.TrimSpace(inner)
}

// unwrapQuotes reports whether text starts and ends with a matching quote
// pair and returns what lies between.
func unwrapQuotes(text string) (string, bool) {
	runes := []rune(text)
	if len(runes) < 2 {
		return text, false
	}
	want, ok := closingQuote[runes[0]]
	if !ok || runes[len(runes)-1] != want {
		return text, false
	}
	return string(runes[1 : len(runes)-1]), true
}

// codeTrim is the set of characters stripped around a detection answer.
const codeTrim = " \t\r\n\"'`*.:;,«»“”‘’"

// LanguageCode reduces a detection answer such as "EN.", "`de`" or
// "Language code: fr" to a lower-case code. Answers that are not a single
// token are returned trimmed and lower-cased so that the caller's
// validity check rejects them.
func LanguageCode(text string) string {
	text = stripReasoning(text)
	if i := strings.LastIndex(text, "\n"); i >= 0 {
		text = text[i+1:]
	}
	if i := strings.LastIndex(text, ":"); i >= 0 {
		text = text[i+1:]
	}
	return strings.ToLower(strings.Trim(text, codeTrim))
}
