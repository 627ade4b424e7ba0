// Package validator checks that a candidate translation is written in the
// requested target language. It is advisory: a mismatch produces a warning
// on the row, never a batch failure.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/lingoval/internal/detector"
	"github.com/valpere/lingoval/internal/lang"
)

// minValidationLength is the minimum rune count required to attempt language
// detection. Shorter texts produce unreliable results and pass unvalidated.
const minValidationLength = 20

// Validator checks candidate translations against their target language.
// The underlying detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid returns true when candidateText appears to be written in target.
//
// Short texts and texts whose language cannot be determined pass without
// error. When the detected language differs from the target the returned
// error names both.
func (v *Validator) IsValid(candidateText string, target lang.Language) (bool, error) {
	text := strings.TrimSpace(candidateText)
	if text == "" {
		return false, fmt.Errorf("candidate translation is empty")
	}

	// Detector is unreliable for very short texts; skip validation.
	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		// Ambiguous language, cannot validate. Pass through.
		return true, nil
	}

	if !strings.EqualFold(detected, target.Code) {
		return false, fmt.Errorf("expected %s (%s) but detected %s", target.Name, target.Code, detected)
	}

	return true, nil
}
