package analysis

import (
	"fmt"
	"math"

	"breachlens/internal/models"
)

// Sub-score weights. They sum to 1.0; the composite score is the weighted
// sum of six sub-scores each scaled to [0,10].
const (
	weightCriticalDensity = 0.30
	weightAverageRisk     = 0.20
	weightBurstRate       = 0.15
	weightFailureRate     = 0.15
	weightCorruption      = 0.10
	weightAssetSpread     = 0.10
)

// SubScores holds the six [0,10] components feeding the composite score.
type SubScores struct {
	CriticalDensity float64
	AverageRisk     float64
	BurstRate       float64
	FailureRate     float64
	Corruption      float64
	AssetSpread     float64
}

// Weighted returns the weighted sum before final rounding.
func (s SubScores) Weighted() float64 {
	return s.CriticalDensity*weightCriticalDensity +
		s.AverageRisk*weightAverageRisk +
		s.BurstRate*weightBurstRate +
		s.FailureRate*weightFailureRate +
		s.Corruption*weightCorruption +
		s.AssetSpread*weightAssetSpread
}

// ScoreRisk combines the aggregate sub-scores into one composite score in
// [0,10] (one decimal) and a justification string that cites every
// contributing sub-score, its raw input, and its weight. The justification
// is the audit trail for the number: identical inputs produce identical
// bytes. The formula is order-independent over the input rows.
func ScoreRisk(agg *models.AggregateStatistics) (float64, string, SubScores) {
	total := float64(agg.TotalEvents)

	sub := SubScores{
		CriticalDensity: math.Min(float64(agg.CriticalCount)/total, 1) * 10,
		AverageRisk:     agg.AvgRisk * 10,
		BurstRate:       10, // degenerate all-at-once case
		FailureRate:     float64(agg.FailedCount) / total * 10,
		Corruption:      float64(agg.CorruptedCount) / total * 10,
		AssetSpread:     math.Min(float64(len(agg.UniqueServers)+len(agg.UniqueFirewalls))/10, 1) * 10,
	}
	if agg.DurationSeconds > 0 {
		sub.BurstRate = math.Min(agg.EventsPerSecond/100, 1) * 10
	}

	score := math.Min(round1(sub.Weighted()), 10)

	justification := fmt.Sprintf(
		"Calculated from: critical-event density %s%% (score %s, w=0.3), "+
			"average ML risk %s (score %s, w=0.2), "+
			"burst rate %s events/sec (score %s, w=0.15), "+
			"failure rate %s%% (score %s, w=0.15), "+
			"data corruption %s%% (score %s, w=0.1), "+
			"asset spread %d servers + %d firewalls (score %s, w=0.1). "+
			"Weighted sum = %s/10.",
		agg.CriticalPct, f1(sub.CriticalDensity),
		f4(agg.AvgRisk), f1(sub.AverageRisk),
		f2(agg.EventsPerSecond), f1(sub.BurstRate),
		agg.FailedPct, f1(sub.FailureRate),
		agg.CorruptedPct, f1(sub.Corruption),
		len(agg.UniqueServers), len(agg.UniqueFirewalls), f1(sub.AssetSpread),
		f1(score),
	)

	return score, justification, sub
}
