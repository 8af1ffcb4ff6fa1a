package normalize

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"breachlens/internal/errors"
	"breachlens/internal/logging"
	"breachlens/internal/models"
)

// FromRow builds a canonical LogRecord from one loosely-typed row. Unrecognized
// columns are ignored. Absent and whitespace-only values become absent fields;
// an unparsable risk score defaults to 0 and an unparsable timestamp leaves
// Timestamp nil while preserving the raw text for timeline grouping.
func FromRow(row models.RowMap) *models.LogRecord {
	rec := &models.LogRecord{
		RawTimestamp: field(row, models.ColTimestamp),
		ServerID:     field(row, models.ColServerID),
		FirewallID:   field(row, models.ColFirewallID),
		User:         field(row, models.ColUser),
		ActionType:   field(row, models.ColActionType),
		PolicyName:   field(row, models.ColPolicyName),
		PolicyRule:   field(row, models.ColPolicyRule),
		Status:       field(row, models.ColStatus),
		LogSource:    field(row, models.ColLogSource),
		BlockchainTx: field(row, models.ColBlockchainTx),
		Notes:        field(row, models.ColNotes),
	}

	if raw := field(row, models.ColMLRiskScore); raw.Present() {
		if v, err := strconv.ParseFloat(raw.Value(), 64); err == nil {
			rec.RiskScore = v
		} else {
			// Degrades to 0 per the numeric-default contract.
			logging.L().Debug("risk_score_defaulted",
				logging.ErrorCode(string(errors.ErrCodeUnparsableNumeric)),
				zap.Error(errors.NewUnparsableNumericError(models.ColMLRiskScore, raw.Value())))
		}
	}

	if rec.RawTimestamp.Present() {
		if t, err := ParseTimestamp(rec.RawTimestamp.Value()); err == nil {
			rec.Timestamp = &t
		} else {
			// Record stays out of the temporal set; raw text still groups.
			logging.L().Debug("timestamp_excluded",
				logging.ErrorCode(string(errors.ErrCodeUnparsableTimestamp)),
				zap.Error(err))
		}
	}

	return rec
}

// Rows normalizes a pre-parsed row sequence. Returns ErrEmptyDataset when the
// sequence has zero elements; callers must not aggregate an empty set.
func Rows(rows []models.RowMap) ([]*models.LogRecord, error) {
	if len(rows) == 0 {
		return nil, errors.NewEmptyDatasetError("row input")
	}
	records := make([]*models.LogRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromRow(row))
	}
	return records, nil
}

// CSV normalizes raw delimited text end to end.
func CSV(text string) ([]*models.LogRecord, error) {
	rows, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}
	return Rows(rows)
}

func field(row models.RowMap, col string) models.Field {
	v, ok := row[col]
	if !ok {
		return models.AbsentField()
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return models.AbsentField()
	}
	return models.StringField(v)
}
