package metrics

import "math"

const (
	// meteorRecallWeight makes recall count nine times as much as precision
	// in the harmonic mean, per the standard METEOR formulation.
	meteorRecallWeight = 9.0

	meteorPenaltyWeight   = 0.5
	meteorPenaltyExponent = 3.0
)

// METEOR computes the METEOR score of candidate against reference using
// exact-token unigram alignment: a recall-weighted harmonic mean of unigram
// precision and recall, discounted by a fragmentation penalty over the
// number of contiguous aligned chunks. The result is in [0,1].
//
// An alignment that forms a single contiguous chunk carries no penalty, so
// identical strings score exactly 1.
func METEOR(candidate, reference string) float64 {
	cand := Tokenize(candidate)
	ref := Tokenize(reference)

	if len(cand) == 0 || len(ref) == 0 {
		warnEmpty("meteor", len(cand) == 0, len(ref) == 0)
		return 0
	}

	positions := alignUnigrams(cand, ref)
	matched := 0
	for _, p := range positions {
		if p >= 0 {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	precision := float64(matched) / float64(len(cand))
	recall := float64(matched) / float64(len(ref))
	fmean := (1 + meteorRecallWeight) * precision * recall /
		(recall + meteorRecallWeight*precision)

	chunks := countChunks(positions)
	if chunks > 1 {
		frag := float64(chunks) / float64(matched)
		fmean *= 1 - meteorPenaltyWeight*math.Pow(frag, meteorPenaltyExponent)
	}

	return clamp01(fmean)
}

// alignUnigrams maps each candidate token to the position of the earliest
// unconsumed identical reference token, or -1 when none remains. Each
// reference token is consumed at most once.
func alignUnigrams(cand, ref []string) []int {
	used := make([]bool, len(ref))
	positions := make([]int, len(cand))

	for i, tok := range cand {
		positions[i] = -1
		for j, refTok := range ref {
			if !used[j] && tok == refTok {
				used[j] = true
				positions[i] = j
				break
			}
		}
	}
	return positions
}

// countChunks counts maximal runs of matched candidate tokens whose
// reference positions are consecutive. An unmatched token breaks a run.
func countChunks(positions []int) int {
	chunks := 0
	prev := -2
	for _, p := range positions {
		if p < 0 {
			prev = -2
			continue
		}
		if p != prev+1 {
			chunks++
		}
		prev = p
	}
	return chunks
}
