// Package models defines the core data structures shared across normalization,
// aggregation, and reporting.
package models

import (
	"encoding/json"
	"time"
)

// Recognized input column names. Unrecognized columns are ignored by the
// normalizer; missing recognized columns default to absent.
const (
	ColTimestamp    = "timestamp"
	ColServerID     = "server_id"
	ColFirewallID   = "firewall_id"
	ColUser         = "user"
	ColActionType   = "action_type"
	ColPolicyName   = "policy_name"
	ColPolicyRule   = "policy_rule"
	ColStatus       = "status"
	ColMLRiskScore  = "ml_risk_score"
	ColLogSource    = "log_source"
	ColBlockchainTx = "blockchain_tx"
	ColNotes        = "notes"
)

// Sentinels used when an absent field participates in grouping or rendering.
const (
	SentinelUnknown   = "UNKNOWN"
	SentinelAnonymous = "ANONYMOUS"
	SentinelNoTime    = "N/A"
)

// Well-known categorical values.
const (
	StatusFailed = "FAILED"

	ActionBruteForce        = "BRUTE_FORCE"
	ActionUnauthorizedLogin = "UNAUTHORIZED_LOGIN"
	ActionMaliciousAccess   = "MALICIOUS_ACCESS"
	ActionConfigWipe        = "CONFIG_WIPE"
)

// RowMap is one loosely-typed input row: column name to raw string value.
type RowMap map[string]string

// LogRecord is one observed security event in canonical form. It is immutable
// once constructed; the pipeline never mutates a record in place.
type LogRecord struct {
	// Timestamp is the parsed event time; nil when absent or unparsable.
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// RawTimestamp is the original timestamp text. The timeline groups by
	// this exact string (ISO-8601 text sorts lexicographically in time order).
	RawTimestamp Field `json:"raw_timestamp"`

	// ServerID identifies the targeted server.
	ServerID Field `json:"server_id"`

	// FirewallID identifies the traversed firewall.
	FirewallID Field `json:"firewall_id"`

	// User is the acting identity.
	User Field `json:"user"`

	// ActionType is the categorical event label (BRUTE_FORCE, CONFIG_WIPE, ...).
	ActionType Field `json:"action_type"`

	// PolicyName and PolicyRule reference the policy the event matched.
	PolicyName Field `json:"policy_name"`
	PolicyRule Field `json:"policy_rule"`

	// Status is the categorical outcome (FAILED, SUCCESS, ...).
	Status Field `json:"status"`

	// RiskScore is the supplied ML risk score in [0,1]; 0 when unparsable.
	RiskScore float64 `json:"ml_risk_score"`

	// LogSource names the emitting collector.
	LogSource Field `json:"log_source"`

	// BlockchainTx is an optional ledger attestation hash.
	BlockchainTx Field `json:"blockchain_tx"`

	// Notes is free-text commentary.
	Notes Field `json:"notes"`
}

// Action returns the action type, or the UNKNOWN sentinel when absent.
func (r *LogRecord) Action() string {
	return r.ActionType.Or(SentinelUnknown)
}

// Failed reports whether the event ended in FAILED status.
func (r *LogRecord) Failed() bool {
	return r.Status.Present() && r.Status.Value() == StatusFailed
}

// Critical reports whether the record crosses the high-risk threshold (≥0.9).
func (r *LogRecord) Critical() bool {
	return r.RiskScore >= 0.9
}

// Corrupted reports whether any of the five required identifying fields is
// absent. Independent of risk score.
func (r *LogRecord) Corrupted() bool {
	return !r.ServerID.Present() ||
		!r.FirewallID.Present() ||
		!r.User.Present() ||
		!r.ActionType.Present() ||
		!r.RawTimestamp.Present()
}

// TimeKey returns the raw timestamp text used for timeline grouping, or the
// N/A sentinel when absent.
func (r *LogRecord) TimeKey() string {
	return r.RawTimestamp.Or(SentinelNoTime)
}

// ToJSON serializes the LogRecord to JSON bytes.
func (r *LogRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
