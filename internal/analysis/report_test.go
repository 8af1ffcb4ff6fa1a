package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachlens/internal/errors"
	"breachlens/internal/models"
)

// hundredRowIncident builds 100 FAILED records with risk scores in [0.9,1.0),
// one recognized action type per quartile, server_id stripped from 10 rows and
// user stripped from 5.
func hundredRowIncident() []models.RowMap {
	actions := []string{
		models.ActionBruteForce,
		models.ActionUnauthorizedLogin,
		models.ActionMaliciousAccess,
		models.ActionConfigWipe,
	}
	rows := make([]models.RowMap, 0, 100)
	for i := 0; i < 100; i++ {
		row := models.RowMap{
			models.ColTimestamp:   fmt.Sprintf("2025-03-14T09:00:%02d.%03dZ", i/10, (i%10)*100),
			models.ColServerID:    fmt.Sprintf("srv-%d", i%4),
			models.ColFirewallID:  fmt.Sprintf("fw-%d", i%2),
			models.ColUser:        "root",
			models.ColActionType:  actions[i/25],
			models.ColStatus:      "FAILED",
			models.ColMLRiskScore: fmt.Sprintf("0.9%02d", i%100),
			models.ColLogSource:   "auth-gw",
		}
		if i < 10 {
			delete(row, models.ColServerID)
		}
		if i >= 20 && i < 25 {
			delete(row, models.ColUser)
		}
		rows = append(rows, row)
	}
	return rows
}

func TestAnalyzeRows_HundredRowIncident(t *testing.T) {
	report, err := AnalyzeRows(hundredRowIncident())
	require.NoError(t, err)

	assert.Equal(t, "100.0", report.Meta.FailedPct)
	assert.Equal(t, "100.0", report.Meta.CriticalPct)
	assert.GreaterOrEqual(t, report.Meta.CorruptedCount, 10)
	assert.Equal(t, 10, report.Meta.MissingServerCount)
	assert.Equal(t, 5, report.Meta.MissingUserCount)

	// All four recognized phases present: exactly six timeline entries.
	require.Len(t, report.AttackTimeline, 6)
	assert.Equal(t, PhaseInitialAccess, report.AttackTimeline[0].Phase)
	assert.Equal(t, PhaseTail, report.AttackTimeline[5].Phase)

	assert.True(t, strings.HasPrefix(report.BreachID, "BREACH-"))
	assert.False(t, report.GeneratedAt.IsZero())
	assert.GreaterOrEqual(t, report.RiskScore, 0.0)
	assert.LessOrEqual(t, report.RiskScore, 10.0)
	assert.Len(t, report.KeyAnomalies, 7)
	assert.Len(t, report.Vulnerabilities, 6)
	assert.NotEmpty(t, report.ImpactedEntities)
}

func TestAnalyzeRows_Idempotence(t *testing.T) {
	rows := hundredRowIncident()

	first, err := AnalyzeRows(rows)
	require.NoError(t, err)
	second, err := AnalyzeRows(rows)
	require.NoError(t, err)

	// Everything except the id and generation timestamp is a pure function
	// of the input.
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.RiskJustification, second.RiskJustification)
	assert.Equal(t, first.BreachSummary, second.BreachSummary)
	assert.Equal(t, first.Meta, second.Meta)
	assert.Equal(t, first.AttackTimeline, second.AttackTimeline)
	assert.Equal(t, first.ImpactedEntities, second.ImpactedEntities)
	assert.Equal(t, first.KeyAnomalies, second.KeyAnomalies)

	assert.NotEqual(t, first.BreachID, second.BreachID)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	_, err := Analyze(nil)
	assert.ErrorIs(t, err, errors.ErrEmptyDataset)

	_, err = AnalyzeRows(nil)
	assert.ErrorIs(t, err, errors.ErrEmptyDataset)

	_, err = AnalyzeCSV("timestamp,server_id\n")
	assert.ErrorIs(t, err, errors.ErrEmptyDataset)
}

func TestAnalyze_SingleRow(t *testing.T) {
	report, err := AnalyzeRows([]models.RowMap{
		{
			models.ColTimestamp:   "2025-03-14T09:00:00.000Z",
			models.ColServerID:    "srv-1",
			models.ColFirewallID:  "fw-1",
			models.ColUser:        "admin",
			models.ColActionType:  models.ActionBruteForce,
			models.ColStatus:      "FAILED",
			models.ColMLRiskScore: "0.95",
		},
	})
	require.NoError(t, err)

	// A single instant must not divide by zero anywhere.
	assert.Equal(t, 0.0, report.Meta.DurationSeconds)
	assert.Equal(t, 1.0, report.Meta.EventsPerSecond)
	assert.GreaterOrEqual(t, report.RiskScore, 0.0)
	assert.LessOrEqual(t, report.RiskScore, 10.0)
}

func TestAnalyzeCSV_EndToEnd(t *testing.T) {
	text := "timestamp,server_id,firewall_id,user,action_type,status,ml_risk_score,log_source\n" +
		"2025-03-14T09:00:00.000Z,srv-1,fw-1,root,BRUTE_FORCE,FAILED,0.95,auth-gw\n" +
		"2025-03-14T09:00:01.000Z,srv-1,fw-1,root,CONFIG_WIPE,FAILED,0.99,auth-gw\n"

	report, err := AnalyzeCSV(text)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Meta.TotalEvents)
	assert.Contains(t, report.BreachSummary, "comprising 2 security events")

	data, err := report.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"breachId":"BREACH-`)
	assert.Contains(t, string(data), `"totalLogs":2`)
	assert.Contains(t, string(data), `"attackTypes":["BRUTE_FORCE","CONFIG_WIPE"]`)
}

func TestCorruptionMonotonicity(t *testing.T) {
	base := models.RowMap{
		models.ColTimestamp:  "2025-03-14T09:00:00.000Z",
		models.ColServerID:   "srv-1",
		models.ColFirewallID: "fw-1",
		models.ColUser:       "admin",
		models.ColActionType: models.ActionBruteForce,
	}

	previous := -1
	for _, strip := range []string{"", models.ColServerID, models.ColFirewallID, models.ColUser} {
		row := models.RowMap{}
		for k, v := range base {
			row[k] = v
		}
		if strip != "" {
			delete(row, strip)
		}

		report, err := AnalyzeRows([]models.RowMap{row})
		require.NoError(t, err)

		// Nulling more required fields never lowers the corrupted count.
		assert.GreaterOrEqual(t, report.Meta.CorruptedCount, previous)
		previous = report.Meta.CorruptedCount
	}
}
