package analysis

import (
	"fmt"
	"sort"
	"strings"

	"breachlens/internal/models"
)

// Kill-chain phase names in emission order.
const (
	PhaseInitialAccess = "Initial Access"
	PhaseCredential    = "Credential Attack"
	PhaseUnauthorized  = "Unauthorized Access"
	PhaseEscalation    = "Privilege Escalation"
	PhaseDestruction   = "Destruction / Anti-Forensics"
	PhaseTail          = "Tail"
)

// timeGroup accumulates one raw-timestamp cluster.
type timeGroup struct {
	count   int
	maxRisk float64
	actions *orderedCounter
}

// Reconstruct produces the ordered attack-progression narrative. Records
// group by raw timestamp text (ISO-8601 strings sort lexicographically in
// time order; absent timestamps group under "N/A"). The four recognized
// phase entries are emitted in fixed catalogue order regardless of observed
// chronology: the ordering encodes an assumed kill-chain model. Cost is
// O(n + g log g) for n records and g distinct timestamp groups.
func Reconstruct(records []*models.LogRecord, agg *models.AggregateStatistics) []models.TimelineEntry {
	groups := make(map[string]*timeGroup)
	var keys []string
	for _, r := range records {
		key := r.TimeKey()
		g := groups[key]
		if g == nil {
			g = &timeGroup{actions: newOrderedCounter()}
			groups[key] = g
			keys = append(keys, key)
		}
		g.count++
		g.actions.add(r.Action())
		if r.RiskScore > g.maxRisk {
			g.maxRisk = r.RiskScore
		}
	}
	sort.Strings(keys)

	var timeline []models.TimelineEntry

	first := groups[keys[0]]
	timeline = append(timeline, models.TimelineEntry{
		Time: keys[0],
		Event: fmt.Sprintf(
			"Initial breach signal detected — %d events within first timestamp cluster. Actions: %s. Peak ML risk: %s.",
			first.count, actionList(first.actions), f4(first.maxRisk)),
		Phase: PhaseInitialAccess,
	})

	if entry, ok := bruteForceEntry(records); ok {
		timeline = append(timeline, entry)
	}
	if entry, ok := unauthorizedEntry(records); ok {
		timeline = append(timeline, entry)
	}
	if entry, ok := maliciousEntry(records); ok {
		timeline = append(timeline, entry)
	}
	if entry, ok := configWipeEntry(records); ok {
		timeline = append(timeline, entry)
	}

	timeline = append(timeline, models.TimelineEntry{
		Time: keys[len(keys)-1],
		Event: fmt.Sprintf(
			"Last observed malicious activity. Total duration: %ss across %d unique timestamp clusters. Burst density: %s events/sec.",
			f2(agg.DurationSeconds), len(keys), f2(agg.EventsPerSecond)),
		Phase: PhaseTail,
	})

	return timeline
}

func bruteForceEntry(records []*models.LogRecord) (models.TimelineEntry, bool) {
	subset := ofAction(records, models.ActionBruteForce)
	if len(subset) == 0 {
		return models.TimelineEntry{}, false
	}
	servers := distinctOf(subset, func(r *models.LogRecord) string {
		return r.ServerID.Or(models.SentinelUnknown)
	})
	users := distinctOf(subset, func(r *models.LogRecord) string {
		return r.User.Or(models.SentinelAnonymous)
	})
	return models.TimelineEntry{
		Time: earliestKey(subset),
		Event: fmt.Sprintf(
			"BRUTE_FORCE campaign: %d attempts detected across %d servers. Mean risk score: %s. Users targeted: %s.",
			len(subset), len(servers), f4(meanRisk(subset)), strings.Join(users, ", ")),
		Phase: PhaseCredential,
	}, true
}

func unauthorizedEntry(records []*models.LogRecord) (models.TimelineEntry, bool) {
	subset := ofAction(records, models.ActionUnauthorizedLogin)
	if len(subset) == 0 {
		return models.TimelineEntry{}, false
	}
	anonymous := 0
	for _, r := range subset {
		if !r.User.Present() {
			anonymous++
		}
	}
	return models.TimelineEntry{
		Time: earliestKey(subset),
		Event: fmt.Sprintf(
			"UNAUTHORIZED_LOGIN wave: %d session hijack attempts. %d anonymous entries detected. Mean risk: %s.",
			len(subset), anonymous, f4(meanRisk(subset))),
		Phase: PhaseUnauthorized,
	}, true
}

func maliciousEntry(records []*models.LogRecord) (models.TimelineEntry, bool) {
	subset := ofAction(records, models.ActionMaliciousAccess)
	if len(subset) == 0 {
		return models.TimelineEntry{}, false
	}
	firewalls := distinctOf(subset, func(r *models.LogRecord) string {
		return r.FirewallID.Or(models.SentinelUnknown)
	})
	return models.TimelineEntry{
		Time: earliestKey(subset),
		Event: fmt.Sprintf(
			"MALICIOUS_ACCESS escalation: %d privilege escalation / data exfil attempts. Firewalls involved: %s. Mean risk: %s.",
			len(subset), strings.Join(firewalls, ", "), f4(meanRisk(subset))),
		Phase: PhaseEscalation,
	}, true
}

func configWipeEntry(records []*models.LogRecord) (models.TimelineEntry, bool) {
	subset := ofAction(records, models.ActionConfigWipe)
	if len(subset) == 0 {
		return models.TimelineEntry{}, false
	}
	targets := distinctOf(subset, func(r *models.LogRecord) string {
		return r.ServerID.Or(models.SentinelUnknown)
	})
	return models.TimelineEntry{
		Time: earliestKey(subset),
		Event: fmt.Sprintf(
			"CONFIG_WIPE destructive phase: %d configuration erasure attempts across %d targets. Mean risk: %s. This indicates active sabotage intent.",
			len(subset), len(targets), f4(meanRisk(subset))),
		Phase: PhaseDestruction,
	}, true
}

func ofAction(records []*models.LogRecord, action string) []*models.LogRecord {
	var subset []*models.LogRecord
	for _, r := range records {
		if r.ActionType.Present() && r.ActionType.Value() == action {
			subset = append(subset, r)
		}
	}
	return subset
}

// earliestKey returns the lexicographically smallest raw-timestamp key of the
// subset; "N/A" sorts after ISO-8601 text, so dated records win when present.
func earliestKey(subset []*models.LogRecord) string {
	earliest := subset[0].TimeKey()
	for _, r := range subset[1:] {
		if key := r.TimeKey(); key < earliest {
			earliest = key
		}
	}
	return earliest
}

func meanRisk(subset []*models.LogRecord) float64 {
	sum := 0.0
	for _, r := range subset {
		sum += r.RiskScore
	}
	return round4(sum / float64(len(subset)))
}

func distinctOf(subset []*models.LogRecord, key func(*models.LogRecord) string) []string {
	set := newOrderedSet()
	for _, r := range subset {
		set.add(key(r))
	}
	return set.list()
}

func actionList(c *orderedCounter) string {
	parts := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		parts = append(parts, fmt.Sprintf("%s(×%d)", k, c.counts[k]))
	}
	return strings.Join(parts, ", ")
}
