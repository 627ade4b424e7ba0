package metrics

import (
	"math"
	"strings"
)

const (
	// bleuMaxOrder is the highest n-gram order considered.
	bleuMaxOrder = 4

	// bleuEpsilon smooths clipped counts so a zero match at one order does
	// not zero the whole geometric mean.
	bleuEpsilon = 1e-9
)

// BLEU computes the sentence-level BLEU score of candidate against
// reference: the geometric mean of epsilon-smoothed clipped n-gram
// precisions for n = 1..min(4, len), multiplied by the brevity penalty.
// The result is in [0,1]. A candidate sharing no unigrams with the
// reference scores exactly 0, and identical token sequences score exactly 1.
func BLEU(candidate, reference string) float64 {
	cand := Tokenize(candidate)
	ref := Tokenize(reference)

	if len(cand) == 0 || len(ref) == 0 {
		warnEmpty("bleu", len(cand) == 0, len(ref) == 0)
		return 0
	}

	// No unigram overlap means no n-gram overlap at any order.
	if clippedMatches(cand, ref, 1) == 0 {
		return 0
	}

	// Capping the order at the shorter side keeps short identical strings at
	// a perfect score instead of punishing them for missing 4-grams.
	maxOrder := bleuMaxOrder
	if len(cand) < maxOrder {
		maxOrder = len(cand)
	}
	if len(ref) < maxOrder {
		maxOrder = len(ref)
	}

	logSum := 0.0
	for n := 1; n <= maxOrder; n++ {
		total := len(cand) - n + 1
		matches := clippedMatches(cand, ref, n)
		p := (float64(matches) + bleuEpsilon) / (float64(total) + bleuEpsilon)
		logSum += math.Log(p)
	}
	score := math.Exp(logSum / float64(maxOrder))

	if len(cand) < len(ref) {
		score *= math.Exp(1.0 - float64(len(ref))/float64(len(cand)))
	}

	return clamp01(score)
}

// clippedMatches counts candidate n-grams that also occur in the reference,
// with each reference n-gram usable at most as often as it occurs there.
func clippedMatches(cand, ref []string, n int) int {
	candCounts := ngramCounts(cand, n)
	refCounts := ngramCounts(ref, n)

	matches := 0
	for gram, c := range candCounts {
		if r, ok := refCounts[gram]; ok {
			if c < r {
				matches += c
			} else {
				matches += r
			}
		}
	}
	return matches
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		// \x1f keeps multi-token grams distinct from single tokens that
		// happen to contain separators.
		gram := strings.Join(tokens[i:i+n], "\x1f")
		counts[gram]++
	}
	return counts
}
