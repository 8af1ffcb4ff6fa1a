package analysis

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"breachlens/internal/models"
)

// topEntityCount bounds the per-server and per-firewall concentration tables.
const topEntityCount = 10

// orderedCounter counts hits per key while remembering first-seen order, so
// descending-count sorts break ties by input order.
type orderedCounter struct {
	keys   []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// ranked returns entries sorted by descending count, first-seen order on
// ties, truncated to limit (no truncation when limit <= 0).
func (c *orderedCounter) ranked(limit int) []models.EntityHits {
	entries := make([]models.EntityHits, 0, len(c.keys))
	for _, k := range c.keys {
		entries = append(entries, models.EntityHits{ID: k, Count: c.counts[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// orderedSet collects distinct values in first-seen order.
type orderedSet struct {
	values []string
	seen   map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.values = append(s.values, v)
	}
}

func (s *orderedSet) list() []string {
	if s.values == nil {
		return []string{}
	}
	return s.values
}

// Aggregate computes the full derived summary of a non-empty record
// collection. It runs in a few linear passes over the input; callers
// guarantee len(records) > 0 (the normalizer rejects empty datasets).
func Aggregate(records []*models.LogRecord) *models.AggregateStatistics {
	total := len(records)
	agg := &models.AggregateStatistics{
		TotalEvents:  total,
		ActionCounts: make(map[string]int),
		UserBehavior: make(map[string]*models.UserProfile),
	}

	riskScores := make(stats.Float64Data, 0, total)
	var timestamps []time.Time

	servers := newOrderedSet()
	firewalls := newOrderedSet()
	users := newOrderedSet()
	sources := newOrderedSet()

	actionCounter := newOrderedCounter()
	serverHits := newOrderedCounter()
	firewallHits := newOrderedCounter()

	for _, r := range records {
		riskScores = append(riskScores, r.RiskScore)

		if r.Failed() {
			agg.FailedCount++
		}
		if r.Critical() {
			agg.CriticalCount++
		}
		if r.Corrupted() {
			agg.CorruptedCount++
		}

		actionCounter.add(r.Action())

		if r.Timestamp != nil {
			timestamps = append(timestamps, *r.Timestamp)
		}

		if r.ServerID.Present() {
			servers.add(r.ServerID.Value())
		} else {
			agg.MissingServerCount++
		}
		if r.FirewallID.Present() {
			firewalls.add(r.FirewallID.Value())
		} else {
			agg.MissingFirewallCount++
		}
		if r.User.Present() {
			users.add(r.User.Value())
		} else {
			agg.MissingUserCount++
		}
		if r.LogSource.Present() {
			sources.add(r.LogSource.Value())
		}

		// Sentinel keys participate in concentration ranking like any other.
		serverHits.add(r.ServerID.Or(models.SentinelUnknown))
		firewallHits.add(r.FirewallID.Or(models.SentinelUnknown))

		user := r.User.Or(models.SentinelAnonymous)
		profile := agg.UserBehavior[user]
		if profile == nil {
			profile = &models.UserProfile{Actions: make(map[string]int)}
			agg.UserBehavior[user] = profile
		}
		profile.Total++
		if r.Critical() {
			profile.HighRisk++
		}
		profile.Actions[r.Action()]++

		if r.BlockchainTx.Present() {
			agg.WithLedgerTx++
		} else {
			agg.WithoutLedgerTx++
		}
	}

	agg.FailedPct = pct(agg.FailedCount, total)
	agg.CriticalPct = pct(agg.CriticalCount, total)
	agg.CorruptedPct = pct(agg.CorruptedCount, total)

	mean, _ := stats.Mean(riskScores)
	max, _ := stats.Max(riskScores)
	min, _ := stats.Min(riskScores)
	agg.AvgRisk = round4(mean)
	agg.MaxRisk = round4(max)
	agg.MinRisk = round4(min)

	agg.ActionCounts = actionCounter.counts
	agg.AttackTypes = append([]string(nil), actionCounter.keys...)
	for _, e := range actionCounter.ranked(0) {
		agg.ActionBreakdown = append(agg.ActionBreakdown, models.ActionCount{
			Action: e.ID,
			Count:  e.Count,
			Pct:    pct(e.Count, total),
		})
	}

	agg.FirstEvent = models.SentinelNoTime
	agg.LastEvent = models.SentinelNoTime
	agg.EventsPerSecond = float64(total) // degenerate single-instant case
	if len(timestamps) > 0 {
		sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
		first := timestamps[0]
		last := timestamps[len(timestamps)-1]
		agg.FirstEvent = first.Format(isoFormat)
		agg.LastEvent = last.Format(isoFormat)
		duration := last.Sub(first).Seconds()
		agg.DurationSeconds = round2(duration)
		if duration > 0 {
			agg.EventsPerSecond = round2(float64(total) / duration)
		}
	}

	agg.UniqueServers = servers.list()
	agg.UniqueFirewalls = firewalls.list()
	agg.UniqueUsers = users.list()
	agg.UniqueSources = sources.list()

	agg.TopServers = serverHits.ranked(topEntityCount)
	agg.TopFirewalls = firewallHits.ranked(topEntityCount)

	return agg
}

// isoFormat matches the normalizer's output layout for event times.
const isoFormat = "2006-01-02T15:04:05.000Z07:00"
