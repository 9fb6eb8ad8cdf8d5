package core

import "github.com/huangsam/cyclereport/schema"

// Summarize aggregates the rows for footers and logs.
// Rows without a numeric capacity accuracy are left out of its mean.
func Summarize(rows []schema.DerivedRow) schema.ReportSummary {
	summary := schema.ReportSummary{Cycles: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	teams := make(map[string]struct{})
	var completionSum, accuracySum int
	for _, r := range rows {
		teams[r.TeamName] = struct{}{}
		completionSum += r.CompletionPercentage
		if v, ok := r.CapacityAccuracy.Value(); ok {
			accuracySum += v
			summary.AccuracyCycles++
		}
	}

	summary.Teams = len(teams)
	summary.MeanCompletion = float64(completionSum) / float64(len(rows))
	if summary.AccuracyCycles > 0 {
		summary.MeanAccuracy = float64(accuracySum) / float64(summary.AccuracyCycles)
	}
	return summary
}
