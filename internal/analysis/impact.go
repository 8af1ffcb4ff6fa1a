package analysis

import "breachlens/internal/models"

// Severity tiers and entity status labels.
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"

	statusIsolate       = "Requires Immediate Isolation"
	statusInvestigating = "Under Investigation"
	statusCompromised   = "Rules Compromised"
	statusMonitoring    = "Monitoring"
)

// Share-of-total thresholds per entity type. Firewalls alert at lower
// concentrations than servers.
const (
	serverCriticalShare   = 0.20
	serverHighShare       = 0.10
	firewallCriticalShare = 0.15
	firewallHighShare     = 0.08
)

// RankEntities assigns severity tiers to the top servers and firewalls by
// event concentration. Status labels are driven solely by the severity tier.
func RankEntities(agg *models.AggregateStatistics) []models.ImpactedEntity {
	total := float64(agg.TotalEvents)
	entities := make([]models.ImpactedEntity, 0, len(agg.TopServers)+len(agg.TopFirewalls))

	for _, s := range agg.TopServers {
		severity := tierFor(float64(s.Count)/total, serverCriticalShare, serverHighShare)
		status := statusInvestigating
		if severity == SeverityCritical {
			status = statusIsolate
		}
		entities = append(entities, models.ImpactedEntity{
			Name:       s.ID,
			Type:       "Server",
			Severity:   severity,
			EventCount: s.Count,
			Status:     status,
		})
	}

	for _, f := range agg.TopFirewalls {
		severity := tierFor(float64(f.Count)/total, firewallCriticalShare, firewallHighShare)
		status := statusMonitoring
		if severity == SeverityCritical {
			status = statusCompromised
		}
		entities = append(entities, models.ImpactedEntity{
			Name:       f.ID,
			Type:       "Firewall",
			Severity:   severity,
			EventCount: f.Count,
			Status:     status,
		})
	}

	return entities
}

func tierFor(share, critical, high float64) string {
	switch {
	case share >= critical:
		return SeverityCritical
	case share >= high:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
