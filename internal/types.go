package internal

// EvaluationRow is one row of an evaluation batch. BaselineText is filled
// lazily by the evaluator when the dataset did not supply it.
type EvaluationRow struct {
	SourceText     string `json:"source_text"`
	TargetLanguage string `json:"target_language"`
	ModelID        string `json:"model_id"`
	CandidateText  string `json:"candidate_text"`
	BaselineText   string `json:"baseline_text"`

	// CandidatePresent reports whether the candidate_text cell existed in the
	// input at all. An empty but present candidate is scored (all zeros); a
	// physically absent cell fails the row as a missing field.
	CandidatePresent bool `json:"-"`
}

// MetricRecord holds the four quality scores for one evaluation row.
// BLEU, METEOR and Fluency are in [0,1]; WordMatchPct is in [0,100].
// Fluency is a length-ratio heuristic, not a linguistic fluency measure.
type MetricRecord struct {
	BLEU         float64 `json:"bleu"`
	METEOR       float64 `json:"meteor"`
	Fluency      float64 `json:"fluency"`
	WordMatchPct float64 `json:"word_match_pct"`
}
