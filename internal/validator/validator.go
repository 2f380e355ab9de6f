// Package validator checks that a translation came back in the language
// that was asked for. A mismatch is only ever reported, never corrected.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/valpere/globaltalk/internal/detector"
	"github.com/valpere/globaltalk/internal/languages"
)

// MinRunes is the shortest translation worth checking.
const MinRunes = 20

// ErrEmpty is returned for a blank translation.
var ErrEmpty = errors.New("translation is empty")

// MismatchError reports a translation written in the wrong language.
type MismatchError struct {
	Want string
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("translation looks like %s, expected %s", e.Got, e.Want)
}

type Validator struct {
	det *detector.Detector
}

// New returns a Validator backed by det. A nil det builds a new detector,
// which takes a while; share one where possible.
func New(det *detector.Detector) *Validator {
	if det == nil {
		det = detector.New()
	}
	return &Validator{det: det}
}

// Check returns nil when text is in target or when that cannot be told:
// short texts, targets the detector does not know, undecided detections.
func (v *Validator) Check(text, target string) error {
	text = strings.TrimSpace(text)
	target = strings.ToLower(target)

	switch {
	case text == "":
		return ErrEmpty
	case !languages.IsSupported(target), utf8.RuneCountInString(text) < MinRunes:
		return nil
	}

	got, ok := v.det.DetectISO(text)
	if !ok || got == target {
		return nil
	}
	return &MismatchError{Want: target, Got: got}
}

// IsValid adapts Check to the translator's validation hook.
func (v *Validator) IsValid(text, target string) (bool, error) {
	err := v.Check(text, target)
	return err == nil, err
}
