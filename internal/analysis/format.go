// Package analysis implements the breach-analysis pipeline: aggregation,
// risk scoring, timeline reconstruction, entity impact ranking, narrative
// synthesis, and report assembly. Every stage is a pure function over
// immutable inputs; nothing here retains state between invocations.
package analysis

import (
	"math"
	"strconv"
)

// Fixed-decimal formatting keeps the justification and narrative text
// reproducible byte-for-byte: one decimal for scores and percentages, two for
// durations and throughput, four for raw risk figures.

func f1(x float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64)
}

func f2(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func f4(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}

// pct formats part-of-total as a percentage with one decimal.
func pct(part, total int) string {
	return f1(float64(part) / float64(total) * 100)
}

func round1(x float64) float64 {
	return roundTo(x, 10)
}

func round2(x float64) float64 {
	return roundTo(x, 100)
}

func round4(x float64) float64 {
	return roundTo(x, 10000)
}

func roundTo(x, scale float64) float64 {
	return math.Round(x*scale) / scale
}
