// Package languages holds the fixed table of language codes the bot accepts.
// It is the only place that decides whether a code is valid.
package languages

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Default is the language assigned to users who never picked one.
const Default = "en"

var supported = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"zh": "Chinese (Simplified)",
	"ko": "Korean",
	"ar": "Arabic",
	"hi": "Hindi",
	"nl": "Dutch",
	"pl": "Polish",
	"sv": "Swedish",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"th": "Thai",
}

// order keeps the listing stable and in the order users are used to.
var order = []string{
	"en", "es", "fr", "de", "it", "pt", "ru", "ja", "zh",
	"ko", "ar", "hi", "nl", "pl", "sv", "tr", "vi", "th",
}

// Language is one entry of the supported table.
type Language struct {
	Code string
	Name string
}

// IsSupported reports whether code is an exact member of the table.
func IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

// Name returns the display name for code, or the code itself when unknown.
func Name(code string) string {
	if name, ok := supported[code]; ok {
		return name
	}
	return code
}

// All returns the supported languages in display order.
func All() []Language {
	out := make([]Language, 0, len(order))
	for _, code := range order {
		out = append(out, Language{Code: code, Name: supported[code]})
	}
	return out
}

// Codes returns the supported codes sorted alphabetically.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Normalize maps a BCP 47 tag such as "en-US" or "pt_BR" to its base code.
// It returns "" when the tag cannot be parsed. The result is not guaranteed
// to be supported; callers check that with IsSupported.
func Normalize(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, _ := t.Base()
	return base.String()
}
