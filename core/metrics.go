package core

import (
	"math"

	"github.com/huangsam/cyclereport/schema"
)

// Percent returns numerator/denominator as a whole percentage, rounding
// half up (toward positive infinity) for every sign. denominator must not be zero.
func Percent(numerator, denominator int) int {
	return int(math.Floor(float64(numerator)*100/float64(denominator) + 0.5))
}

// completionPercentage is completed over total work, zero for an empty cycle.
func completionPercentage(total, completed int) int {
	if total <= 0 {
		return 0
	}
	return Percent(completed, total)
}

// capacityAccuracy is completed over originally planned work, not applicable
// when the planned work is zero.
func capacityAccuracy(total, completed, scopeChange int) schema.CapacityAccuracy {
	planned := total - scopeChange
	if planned == 0 {
		return schema.NotApplicable()
	}
	return schema.AccuracyOf(Percent(completed, planned))
}

// seriesCount turns a series reading into a whole issue count.
func seriesCount(v float64) int {
	return int(math.Round(v))
}
