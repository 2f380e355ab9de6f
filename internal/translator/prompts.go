package translator

import (
	"fmt"
	"strings"

	"github.com/valpere/globaltalk/internal/placeholder"
)

// SourcePlaceholder stands in for a source language that is missing from
// the supported table.
const SourcePlaceholder = "the source language"

// AccurateVerdict is the exact verification answer that keeps the candidate.
const AccurateVerdict = "Translation is accurate."

// DetectionPrompt asks the model for the language code of text.
func DetectionPrompt(text string) string {
	return fmt.Sprintf(`Task: Detect the language of the following text.

Instructions:
1. Analyze the text thoroughly to identify the language used.
2. Respond with the ISO 639-1 language code of the detected language and nothing else.

Text:
"%s"

Language code:`, text)
}

// TranslationPrompt asks for a translation of text from source into target.
// source is either a supported code or SourcePlaceholder.
func TranslationPrompt(text, source, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: Translate the following text from %s to %s with extreme precision and accuracy.\n\n", source, target)
	b.WriteString(`Instructions:
1. Analyze the text thoroughly to understand its full context, tone, and intent.
2. Consider any cultural nuances, idioms, or specific terminology in the source text.
3. Translate the text maintaining the original meaning, tone, and style as closely as possible.
4. Ensure proper grammar, punctuation, and formatting in the target language.
5. If there are multiple possible interpretations, choose the most appropriate one based on context.
6. For any ambiguous terms or phrases, provide the most likely translation and include a brief explanation in parentheses if necessary.
7. Double-check the translation for accuracy, paying special attention to:
   - Correct use of tenses
   - Proper noun translations (names, places, etc.)
   - Numerical values and units of measurement
   - Technical or specialized vocabulary
8. Verify that no part of the original text has been omitted in the translation.
9. Ensure that the translation reads naturally in the target language.
10. If the text contains humor, wordplay, or cultural references, adapt them appropriately for the target language and culture.
`)
	if strings.Contains(text, "[PH") {
		fmt.Fprintf(&b, "11. %s\n", placeholder.InstructionHint())
	}
	fmt.Fprintf(&b, "\nOriginal text:\n\"%s\"\n\nTranslated text (in %s):", text, target)
	return b.String()
}

// VerificationPrompt asks the model to confirm candidate or correct it.
func VerificationPrompt(text, candidate, source, target string) string {
	return fmt.Sprintf(`Verify the accuracy of the following translation from %s to %s:

Original: "%s"
Translation: "%s"

Instructions:
1. Check for any mistranslations or inaccuracies.
2. Verify that the tone and style are preserved.
3. Ensure all content from the original is included in the translation.
4. Check for proper grammar and natural flow in the target language.

If any issues are found, provide a corrected version as the last line of your answer. If no issues are found, respond with %q

Verification result:`, source, target, text, candidate, AccurateVerdict)
}
