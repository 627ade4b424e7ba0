package metrics

// Fluency returns a length-ratio similarity between candidate and reference:
// 1 - |len(cand) - len(ref)| / max(len(cand), len(ref), 1), clamped to [0,1].
// This is explicitly NOT a linguistic fluency measure; it only rewards
// candidates whose token count tracks the reference.
func Fluency(candidate, reference string) float64 {
	cand := Tokenize(candidate)
	ref := Tokenize(reference)

	if len(cand) == 0 || len(ref) == 0 {
		warnEmpty("fluency", len(cand) == 0, len(ref) == 0)
		return 0
	}

	diff := len(cand) - len(ref)
	if diff < 0 {
		diff = -diff
	}
	den := len(cand)
	if len(ref) > den {
		den = len(ref)
	}
	if den < 1 {
		den = 1
	}
	return clamp01(1 - float64(diff)/float64(den))
}

// WordMatch returns the Jaccard similarity of the unique token sets of
// candidate and reference, expressed as a percentage in [0,100]. An empty
// union (both sides normalize to nothing) yields 0, not NaN.
func WordMatch(candidate, reference string) float64 {
	candSet := uniqueTokens(Tokenize(candidate))
	refSet := uniqueTokens(Tokenize(reference))

	intersection := 0
	for t := range candSet {
		if _, ok := refSet[t]; ok {
			intersection++
		}
	}
	union := len(candSet) + len(refSet) - intersection
	if union == 0 {
		return 0
	}
	return 100 * float64(intersection) / float64(union)
}
