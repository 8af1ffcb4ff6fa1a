package models

import (
	"encoding/json"
	"time"
)

// ActionCount is one row of the per-action-type frequency table.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
	Pct    string `json:"pct"`
}

// EntityHits is an entity identifier with its event concentration.
type EntityHits struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// UserProfile summarizes one user's behavior across the dataset.
type UserProfile struct {
	Total    int            `json:"total"`
	HighRisk int            `json:"highRisk"`
	Actions  map[string]int `json:"actions"`
}

// AggregateStatistics is the derived, read-only summary of a record
// collection. It is computed once by the aggregator and consumed by every
// downstream stage; nothing mutates it after construction.
type AggregateStatistics struct {
	TotalEvents int `json:"totalLogs"`

	FailedCount int    `json:"failedLogs"`
	FailedPct   string `json:"failedPct"`

	CriticalCount int    `json:"highRiskEvents"`
	CriticalPct   string `json:"criticalPct"`

	AvgRisk float64 `json:"avgRiskScore"`
	MaxRisk float64 `json:"maxRiskScore"`
	MinRisk float64 `json:"minRiskScore"`

	// ActionBreakdown is sorted by descending count, ties in first-seen order.
	// AttackTypes lists the same distinct labels in first-seen order.
	ActionBreakdown []ActionCount  `json:"actionBreakdown"`
	AttackTypes     []string       `json:"attackTypes"`
	ActionCounts    map[string]int `json:"-"`

	// Temporal span over parseable timestamps. FirstEvent/LastEvent are
	// ISO-8601 strings, or "N/A" when no timestamp parsed.
	FirstEvent      string  `json:"firstEvent"`
	LastEvent       string  `json:"lastEvent"`
	DurationSeconds float64 `json:"durationSeconds"`
	EventsPerSecond float64 `json:"eventsPerSecond"`

	// Distinct entities in first-seen order; absent values are excluded from
	// the sets and tracked by the missing counts instead.
	UniqueServers   []string `json:"uniqueServers"`
	UniqueFirewalls []string `json:"uniqueFirewalls"`
	UniqueUsers     []string `json:"uniqueUsers"`
	UniqueSources   []string `json:"uniqueSources"`

	MissingServerCount   int `json:"missingServerCount"`
	MissingFirewallCount int `json:"missingFirewallCount"`
	MissingUserCount     int `json:"missingUserCount"`

	// UserBehavior keys substitute ANONYMOUS for absent users.
	UserBehavior map[string]*UserProfile `json:"userBehavior"`

	// TopServers/TopFirewalls are the top-10 by hit count, ties broken by
	// first-seen order. Absent identifiers group under UNKNOWN.
	TopServers   []EntityHits `json:"serverBreakdown"`
	TopFirewalls []EntityHits `json:"firewallBreakdown"`

	CorruptedCount int    `json:"corruptedEntries"`
	CorruptedPct   string `json:"corruptedPct"`

	// Ledger attestation presence split.
	WithLedgerTx    int `json:"withBlockchainTx"`
	WithoutLedgerTx int `json:"withoutBlockchainTx"`
}

// TimelineEntry is one step of the reconstructed attack progression.
type TimelineEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
	Phase string `json:"phase"`
}

// ImpactedEntity is one ranked server or firewall with its severity tier.
type ImpactedEntity struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	EventCount int    `json:"eventCount"`
	Status     string `json:"status"`
}

// Finding is one catalogued anomaly or vulnerability observation.
type Finding struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description"`
}

// BreachReport is the final immutable analysis output. Every sentence in it
// is traceable to an aggregate computed from the input rows.
type BreachReport struct {
	BreachID    string    `json:"breachId"`
	GeneratedAt time.Time `json:"generatedAt"`

	BreachSummary       string              `json:"breachSummary"`
	KeyAnomalies        []Finding           `json:"keyAnomalies"`
	AttackTimeline      []TimelineEntry     `json:"attackTimeline"`
	RootCauseHypothesis string              `json:"rootCauseHypothesis"`
	ImpactedEntities    []ImpactedEntity    `json:"impactedEntities"`
	Vulnerabilities     []Finding           `json:"vulnerabilities"`
	RiskScore           float64             `json:"riskScore"`
	RiskJustification   string              `json:"riskJustification"`
	ImmediateActions    []string            `json:"immediateActions"`
	RecoveryStrategy    []string            `json:"recoveryStrategy"`
	LongTermPrevention  []string            `json:"longTermPrevention"`
	DatasetInsights     []string            `json:"datasetInsights"`
	Meta                AggregateStatistics `json:"meta"`
}

// ToJSON serializes the report to JSON bytes.
func (r *BreachReport) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ToPrettyJSON serializes the report with indentation for terminal output.
func (r *BreachReport) ToPrettyJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
