package analysis

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"breachlens/internal/errors"
	"breachlens/internal/models"
	"breachlens/internal/normalize"
)

// Analyze runs the full pipeline over normalized records and assembles the
// immutable report. The only propagated failure is the empty-input case;
// every per-record parsing problem has already degraded to a default during
// normalization. Apart from the report id and generation timestamp, the
// output is a deterministic function of the input rows.
func Analyze(records []*models.LogRecord) (*models.BreachReport, error) {
	if len(records) == 0 {
		return nil, errors.NewEmptyDatasetError("record input")
	}

	agg := Aggregate(records)
	score, justification, _ := ScoreRisk(agg)

	return &models.BreachReport{
		BreachID:            newBreachID(),
		GeneratedAt:         time.Now().UTC(),
		BreachSummary:       Summary(agg),
		KeyAnomalies:        Anomalies(agg),
		AttackTimeline:      Reconstruct(records, agg),
		RootCauseHypothesis: RootCause(agg),
		ImpactedEntities:    RankEntities(agg),
		Vulnerabilities:     Vulnerabilities(agg),
		RiskScore:           score,
		RiskJustification:   justification,
		ImmediateActions:    ImmediateActions(agg),
		RecoveryStrategy:    RecoveryStrategy(agg),
		LongTermPrevention:  LongTermPrevention(agg),
		DatasetInsights:     DatasetInsights(agg),
		Meta:                *agg,
	}, nil
}

// AnalyzeRows normalizes loosely-typed rows and analyzes them.
func AnalyzeRows(rows []models.RowMap) (*models.BreachReport, error) {
	records, err := normalize.Rows(rows)
	if err != nil {
		return nil, err
	}
	return Analyze(records)
}

// AnalyzeCSV parses delimited text with a header row and analyzes it.
func AnalyzeCSV(text string) (*models.BreachReport, error) {
	records, err := normalize.CSV(text)
	if err != nil {
		return nil, err
	}
	return Analyze(records)
}

// newBreachID builds a unique report identifier.
func newBreachID() string {
	parts := strings.SplitN(uuid.NewString(), "-", 3)
	return "BREACH-" + strings.ToUpper(parts[0]) + "-" + strings.ToUpper(parts[1])
}
