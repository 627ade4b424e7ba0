package evaluator

import "sort"

// ModelSummary aggregates the scores of the Done rows sharing a model and
// target language. Done and Failed together cover every row of the group.
type ModelSummary struct {
	ModelID        string
	TargetLanguage string
	Done           int
	Failed         int
	AvgBLEU        float64
	AvgMETEOR      float64
	AvgFluency     float64
	AvgWordMatch   float64
}

// Summarize groups results by (model, language) and averages the metrics of
// the Done rows. Failed rows count toward Failed but not the averages.
// Groups come back sorted by model then language.
func Summarize(results []RowResult) []ModelSummary {
	type key struct{ model, language string }

	groups := make(map[key]*ModelSummary)
	order := make([]key, 0)
	for _, r := range results {
		k := key{r.Row.ModelID, r.Row.TargetLanguage}
		s, ok := groups[k]
		if !ok {
			s = &ModelSummary{ModelID: k.model, TargetLanguage: k.language}
			groups[k] = s
			order = append(order, k)
		}
		if r.Status != StatusDone || r.Metrics == nil {
			s.Failed++
			continue
		}
		s.Done++
		s.AvgBLEU += r.Metrics.BLEU
		s.AvgMETEOR += r.Metrics.METEOR
		s.AvgFluency += r.Metrics.Fluency
		s.AvgWordMatch += r.Metrics.WordMatchPct
	}

	summaries := make([]ModelSummary, 0, len(order))
	for _, k := range order {
		s := groups[k]
		if s.Done > 0 {
			n := float64(s.Done)
			s.AvgBLEU /= n
			s.AvgMETEOR /= n
			s.AvgFluency /= n
			s.AvgWordMatch /= n
		}
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ModelID != summaries[j].ModelID {
			return summaries[i].ModelID < summaries[j].ModelID
		}
		return summaries[i].TargetLanguage < summaries[j].TargetLanguage
	})
	return summaries
}
