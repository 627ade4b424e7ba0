// Package placeholder protects bracket-delimited template tokens such as
// [dataPoints] or [brokerName] during translation by swapping them for
// numbered markers (__PH0__, __PH1__, …) that LLMs are instructed to keep.
// After translation, Restore substitutes the originals back and Verify
// checks that presence and multiplicity survived the round trip.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// A placeholder is bracket-delimited with no internal whitespace or
	// nested brackets: [dataPoints], [brokerName], [country].
	rePlaceholder = regexp.MustCompile(`\[[^\s\[\]]+\]`)

	// marker reference in translated text
	reMarker = regexp.MustCompile(`__PH(\d+)__`)
)

// Extract returns every placeholder token in text, in order of appearance
// and with repeats kept.
func Extract(text string) []string {
	return rePlaceholder.FindAllString(text, -1)
}

// Protect replaces each placeholder in text with a numbered __PHn__ marker
// in order of appearance. It returns the modified text and the captured
// originals so Restore can put them back.
func Protect(text string) (string, []string) {
	var originals []string
	protected := rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		marker := fmt.Sprintf("__PH%d__", len(originals))
		originals = append(originals, match)
		return marker
	})
	return protected, originals
}

// Restore substitutes __PHn__ markers back with the originals captured by
// Protect. Unknown indices are left as-is; markers the model dropped simply
// do not reappear (Verify reports the damage).
func Restore(text string, originals []string) string {
	return reMarker.ReplaceAllStringFunc(text, func(match string) string {
		sub := reMarker.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(originals) {
			return match
		}
		return originals[idx]
	})
}

// InstructionHint returns a sentence to append to an LLM prompt so the model
// leaves markers intact.
func InstructionHint() string {
	return "Preserve every __PHn__ marker exactly as it appears. Do not translate, move, or remove them."
}

// Verify compares the placeholder multisets of source and translated text.
// Position is free; presence and multiplicity must match exactly. It returns
// the placeholders missing from the translation and the ones it invented,
// and true when both lists are empty.
func Verify(source, translated string) (missing, extra []string, ok bool) {
	want := countTokens(Extract(source))
	got := countTokens(Extract(translated))

	for tok, n := range want {
		for i := got[tok]; i < n; i++ {
			missing = append(missing, tok)
		}
	}
	for tok, n := range got {
		for i := want[tok]; i < n; i++ {
			extra = append(extra, tok)
		}
	}
	return missing, extra, len(missing) == 0 && len(extra) == 0
}

func countTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[strings.TrimSpace(t)]++
	}
	return counts
}
