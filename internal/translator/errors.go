package translator

import (
	"errors"
	"fmt"
)

// ErrInvalidTargetLanguage is matched by InvalidTargetLanguageError.
var ErrInvalidTargetLanguage = errors.New("invalid target language")

// InvalidTargetLanguageError reports a target code outside the supported table.
type InvalidTargetLanguageError struct {
	Code string
}

func (e *InvalidTargetLanguageError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidTargetLanguage, e.Code)
}

func (e *InvalidTargetLanguageError) Is(target error) bool {
	return target == ErrInvalidTargetLanguage
}

// Pipeline steps named in TranslationFailedError.
const (
	StepDetection    = "detection"
	StepTranslation  = "translation"
	StepVerification = "verification"
)

// TranslationFailedError wraps a model failure during one pipeline step.
// Text is the original input so the failure can be logged with it.
type TranslationFailedError struct {
	Text string
	Step string
	Err  error
}

func (e *TranslationFailedError) Error() string {
	return fmt.Sprintf("translation failed during %s: %v", e.Step, e.Err)
}

func (e *TranslationFailedError) Unwrap() error { return e.Err }
