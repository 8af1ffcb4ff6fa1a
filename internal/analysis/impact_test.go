package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachlens/internal/models"
)

func TestRankEntities_SeverityTiers(t *testing.T) {
	// 10 events: srv-hot takes 30% (Critical), srv-warm 10% (High), the rest
	// spread thin (Medium). Firewalls alert at lower shares.
	var records []*models.LogRecord
	add := func(n int, row models.RowMap) {
		for i := 0; i < n; i++ {
			records = append(records, rec(row))
		}
	}
	add(3, models.RowMap{models.ColServerID: "srv-hot", models.ColFirewallID: "fw-hot"})
	add(1, models.RowMap{models.ColServerID: "srv-warm", models.ColFirewallID: "fw-cold"})
	add(6, models.RowMap{models.ColServerID: "srv-cold"})

	entities := RankEntities(Aggregate(records))

	byName := make(map[string]models.ImpactedEntity)
	for _, e := range entities {
		byName[e.Name+"/"+e.Type] = e
	}

	hot := byName["srv-hot/Server"]
	assert.Equal(t, SeverityCritical, hot.Severity)
	assert.Equal(t, "Requires Immediate Isolation", hot.Status)
	assert.Equal(t, 3, hot.EventCount)

	warm := byName["srv-warm/Server"]
	assert.Equal(t, SeverityHigh, warm.Severity)
	assert.Equal(t, "Under Investigation", warm.Status)

	// fw-hot carries 30% of events: critical for a firewall.
	fwHot := byName["fw-hot/Firewall"]
	assert.Equal(t, SeverityCritical, fwHot.Severity)
	assert.Equal(t, "Rules Compromised", fwHot.Status)

	// fw-cold at 10% crosses the 8% firewall threshold but not 15%.
	fwCold := byName["fw-cold/Firewall"]
	assert.Equal(t, SeverityHigh, fwCold.Severity)
	assert.Equal(t, "Monitoring", fwCold.Status)
}

func TestRankEntities_SharedTimestampSplitsPerEntity(t *testing.T) {
	// Two events at the same instant against different servers rank as two
	// separate entities, one event each.
	records := []*models.LogRecord{
		rec(models.RowMap{
			models.ColTimestamp:  "2025-03-14T09:00:00.000Z",
			models.ColServerID:   "srv-1",
			models.ColActionType: "BRUTE_FORCE",
		}),
		rec(models.RowMap{
			models.ColTimestamp:  "2025-03-14T09:00:00.000Z",
			models.ColServerID:   "srv-2",
			models.ColActionType: "BRUTE_FORCE",
		}),
	}

	entities := RankEntities(Aggregate(records))

	servers := make([]models.ImpactedEntity, 0, 2)
	for _, e := range entities {
		if e.Type == "Server" {
			servers = append(servers, e)
		}
	}
	require.Len(t, servers, 2)
	for _, s := range servers {
		assert.Equal(t, 1, s.EventCount)
		// 50% share each: critical concentration despite the single event.
		assert.Equal(t, SeverityCritical, s.Severity)
	}
}

func TestRankEntities_SentinelEntity(t *testing.T) {
	records := []*models.LogRecord{
		rec(models.RowMap{}),
		rec(models.RowMap{}),
	}

	entities := RankEntities(Aggregate(records))

	require.Len(t, entities, 2)
	assert.Equal(t, models.SentinelUnknown, entities[0].Name)
	assert.Equal(t, "Server", entities[0].Type)
	assert.Equal(t, models.SentinelUnknown, entities[1].Name)
	assert.Equal(t, "Firewall", entities[1].Type)
}
