// Package metrics computes translation quality scores between a candidate
// translation and a baseline reference: BLEU, METEOR, a length-ratio fluency
// heuristic, and a word-overlap percentage. All functions are pure and share
// the same normalization.
//
// Policy for degenerate input: BLEU, METEOR and Fluency return 0 and log a
// warning when either side normalizes to zero tokens. WordMatch instead
// follows its set definition and returns 0 only for an empty union.
package metrics

import (
	"strings"
	"unicode"

	"github.com/valpere/lingoval/internal/logger"
)

// Tokenize lowercases text and splits it at whitespace and punctuation
// boundaries. Letters and digits form tokens; every other rune separates.
// Empty tokens are dropped.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

func uniqueTokens(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// warnEmpty logs the zero-token condition that makes a metric return 0.
func warnEmpty(metric string, candidateEmpty, referenceEmpty bool) {
	logger.Warn("metric computed as 0: input has no tokens after normalization",
		"metric", metric,
		"candidate_empty", candidateEmpty,
		"reference_empty", referenceEmpty)
}
