// Package detector guesses the language of a message locally so that a
// model call can be skipped when the answer is obvious.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minRunes is the shortest text DetectISO will try. Greetings and single
// words are left to the model.
const minRunes = 12

// supported mirrors the bot's language table.
var supported = []lingua.Language{
	lingua.English, lingua.Spanish, lingua.French, lingua.German,
	lingua.Italian, lingua.Portuguese, lingua.Russian, lingua.Japanese,
	lingua.Chinese, lingua.Korean, lingua.Arabic, lingua.Hindi,
	lingua.Dutch, lingua.Polish, lingua.Swedish, lingua.Turkish,
	lingua.Vietnamese, lingua.Thai,
}

// Detector is expensive to build; share one instance.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(supported...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	if len([]rune(strings.TrimSpace(text))) < minRunes {
		return "", false
	}
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
