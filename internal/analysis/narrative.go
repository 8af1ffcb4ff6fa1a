package analysis

import (
	"fmt"
	"strings"

	"breachlens/internal/models"
)

// The synthesizer renders fixed-structure findings by substituting aggregate
// values into template strings. Each catalogue entry pairs a presence
// condition with a renderer, so the output is deterministic and testable:
// no free-form generation, no content beyond what the aggregates support.

type findingRule struct {
	id       string
	title    string
	severity string
	applies  func(*models.AggregateStatistics) bool
	render   func(*models.AggregateStatistics) string
}

// Summary renders the lead paragraph of the report.
func Summary(agg *models.AggregateStatistics) string {
	return fmt.Sprintf(
		"A coordinated external attack comprising %d security events was detected across %d unique server(s) and %d unique firewall(s). "+
			"The attack occurred between %s and %s (duration: %s seconds) at a burst density of %s events/sec. "+
			"%d events (%s%%) exceeded the critical ML risk threshold (≥0.9). "+
			"%d (%s%%) of all actions resulted in FAILED status, indicating both automated defense engagement and persistent attacker retries. "+
			"Attack types observed: %s. "+
			"%d entries (%s%%) contained missing or malformed fields (server_id, firewall_id, user, or timestamp), suggesting either evasion techniques or log injection attempts. "+
			"All events originated from log_source: %s.",
		agg.TotalEvents, len(agg.UniqueServers), len(agg.UniqueFirewalls),
		agg.FirstEvent, agg.LastEvent, f2(agg.DurationSeconds), f2(agg.EventsPerSecond),
		agg.CriticalCount, agg.CriticalPct,
		agg.FailedCount, agg.FailedPct,
		actionSummary(agg),
		agg.CorruptedCount, agg.CorruptedPct,
		sourceList(agg),
	)
}

var anomalyCatalogue = []findingRule{
	{
		id:    "ANO-001",
		title: "Extreme Anomaly Density",
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.CriticalCount > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"%d/%d events (%s%%) have ML risk scores ≥ 0.9. Average risk across all events: %s. "+
					"This density is abnormal for any production environment and indicates a concerted attack rather than isolated probing.",
				agg.CriticalCount, agg.TotalEvents, agg.CriticalPct, f4(agg.AvgRisk))
		},
	},
	{
		id:    "ANO-002",
		title: "Compressed Timestamp Clustering",
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.FirstEvent != models.SentinelNoTime
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"All %d events fall within a %ss window at %s events/sec. "+
					"Interval regularity at this density indicates automated tool execution, not manual intrusion.",
				agg.TotalEvents, f2(agg.DurationSeconds), f2(agg.EventsPerSecond))
		},
	},
	{
		id:    "ANO-003",
		title: "Systematic Field Nullification",
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.CorruptedCount > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"%d events missing server_id, %d missing firewall_id, %d missing user field. "+
					"Total corrupted entries: %d (%s%%). This pattern suggests deliberate header stripping to evade log correlation systems.",
				agg.MissingServerCount, agg.MissingFirewallCount, agg.MissingUserCount,
				agg.CorruptedCount, agg.CorruptedPct)
		},
	},
	{
		id:    "ANO-004",
		title: "Concentrated Identity Usage",
		applies: func(agg *models.AggregateStatistics) bool {
			return len(agg.UniqueUsers) > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"Users observed: %s, with %d anonymous entries. A small identity set driving %d events "+
					"suggests credential theft or attacker-created accounts rather than organic user activity.",
				quoteList(agg.UniqueUsers), agg.MissingUserCount, agg.TotalEvents)
		},
	},
	{
		id:    "ANO-005",
		title: "Multi-Phase Attack Chain",
		applies: func(agg *models.AggregateStatistics) bool {
			return recognizedPhases(agg) >= 2
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"The dataset exhibits a clear kill chain: BRUTE_FORCE (%d) → UNAUTHORIZED_LOGIN (%d) → MALICIOUS_ACCESS (%d) → CONFIG_WIPE (%d). "+
					"This progression from reconnaissance to destruction is a hallmark of an APT-style intrusion.",
				agg.ActionCounts[models.ActionBruteForce],
				agg.ActionCounts[models.ActionUnauthorizedLogin],
				agg.ActionCounts[models.ActionMaliciousAccess],
				agg.ActionCounts[models.ActionConfigWipe])
		},
	},
	{
		id:    "ANO-006",
		title: "High Failure Rate with Persistence",
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.FailedCount > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			if agg.FailedPct == "100.0" {
				return fmt.Sprintf(
					"Every single event has FAILED status, yet the attacker generated %d attempts. "+
						"This indicates either defensive controls are effective but the attacker has not relented, "+
						"or the failures are being logged while some parallel attack channel is succeeding undetected.",
					agg.TotalEvents)
			}
			return fmt.Sprintf(
				"%s%% failure rate across %d events. The attacker persisted despite repeated failures, "+
					"suggesting automated retries and possible parallel attack vectors.",
				agg.FailedPct, agg.TotalEvents)
		},
	},
	{
		id:    "ANO-007",
		title: "Low-Cardinality Infrastructure Footprint",
		applies: func(agg *models.AggregateStatistics) bool {
			return len(agg.UniqueServers) > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"Servers targeted: %s. %d distinct servers and %d distinct firewalls across %d events is itself an anomaly signal; "+
					"identifiers outside the environment's naming conventions suggest spoofed or phantom infrastructure probing.",
				quoteList(agg.UniqueServers), len(agg.UniqueServers), len(agg.UniqueFirewalls), agg.TotalEvents)
		},
	},
}

var vulnerabilityCatalogue = []findingRule{
	{
		id:       "VULN-001",
		title:    "Insufficient Brute-Force Rate Limiting",
		severity: SeverityCritical,
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.ActionCounts[models.ActionBruteForce] > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"%d brute-force attempts were not throttled or blocked. The system allowed %s events/sec without triggering automated lockout. "+
					"Rate limiting or progressive delay must be implemented at authentication endpoints.",
				agg.ActionCounts[models.ActionBruteForce], f2(agg.EventsPerSecond))
		},
	},
	{
		id:       "VULN-002",
		title:    "Missing Log Field Validation",
		severity: SeverityHigh,
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.CorruptedCount > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"%d log entries (%s%%) have missing critical fields. The logging pipeline does not enforce schema validation, "+
					"allowing attackers to inject malformed entries or strip identifying information.",
				agg.CorruptedCount, agg.CorruptedPct)
		},
	},
	{
		id:       "VULN-003",
		title:    "No Multi-Factor Authentication Detected",
		severity: SeverityCritical,
		applies: func(agg *models.AggregateStatistics) bool {
			return credentialAttacks(agg) > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"All %d credential-based attacks targeted single-factor authentication. "+
					"No MFA challenge or secondary verification step was triggered during the attack window.",
				credentialAttacks(agg))
		},
	},
	{
		id:       "VULN-004",
		title:    "Configuration Management Unprotected",
		severity: SeverityCritical,
		applies: func(agg *models.AggregateStatistics) bool {
			return agg.ActionCounts[models.ActionConfigWipe] > 0
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"%d CONFIG_WIPE attempts indicate configuration management endpoints are accessible without additional authorization controls. "+
					"Critical infrastructure configs should require change-approval workflows.",
				agg.ActionCounts[models.ActionConfigWipe])
		},
	},
	{
		id:       "VULN-005",
		title:    "Unidentifiable Infrastructure Traffic Not Blocked",
		severity: SeverityMedium,
		applies: func(agg *models.AggregateStatistics) bool {
			return hasUnknownEntity(agg)
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"Events targeting unidentifiable infrastructure (%d missing server_id, %d missing firewall_id) were processed and logged "+
					"rather than being rejected at the network perimeter. This allows attackers to enumerate infrastructure.",
				agg.MissingServerCount, agg.MissingFirewallCount)
		},
	},
	{
		id:       "VULN-006",
		title:    "No Real-Time Alert for Anomaly Burst",
		severity: SeverityHigh,
		applies: func(agg *models.AggregateStatistics) bool {
			return true
		},
		render: func(agg *models.AggregateStatistics) string {
			return fmt.Sprintf(
				"%d events at %s events/sec did not trigger an automated circuit-breaker or real-time SIEM alert. "+
					"The detection was retroactive rather than proactive.",
				agg.TotalEvents, f2(agg.EventsPerSecond))
		},
	},
}

// Anomalies evaluates the anomaly catalogue against the aggregates.
func Anomalies(agg *models.AggregateStatistics) []models.Finding {
	return evalCatalogue(anomalyCatalogue, agg)
}

// Vulnerabilities evaluates the vulnerability catalogue against the aggregates.
func Vulnerabilities(agg *models.AggregateStatistics) []models.Finding {
	return evalCatalogue(vulnerabilityCatalogue, agg)
}

func evalCatalogue(rules []findingRule, agg *models.AggregateStatistics) []models.Finding {
	findings := make([]models.Finding, 0, len(rules))
	for _, rule := range rules {
		if !rule.applies(agg) {
			continue
		}
		findings = append(findings, models.Finding{
			ID:          rule.id,
			Title:       rule.title,
			Severity:    rule.severity,
			Description: rule.render(agg),
		})
	}
	return findings
}

// RootCause renders the numbered hypothesis narrative. Sections appear only
// when their driving aggregate is non-zero.
func RootCause(agg *models.AggregateStatistics) string {
	var sections []string

	if n := agg.ActionCounts[models.ActionBruteForce]; n > 0 {
		sections = append(sections, fmt.Sprintf(
			"**Automated Credential Stuffing Tool**: The %d BRUTE_FORCE events within a %ss window indicate an automated attack tool rather than manual intrusion. "+
				"The consistent ML risk scores (range %s–%s, mean %s) suggest a uniform attack payload.",
			n, f2(agg.DurationSeconds), f4(agg.MinRisk), f4(agg.MaxRisk), f4(agg.AvgRisk)))
	}

	if len(agg.UniqueUsers) > 0 {
		sections = append(sections, fmt.Sprintf(
			"**Identity-Based Attack Vector**: %d distinct user identities (%s) were used across attack types, "+
				"consistent with credential replay on compromised accounts and attacker-created persistence accounts.",
			len(agg.UniqueUsers), quoteList(agg.UniqueUsers)))
	}

	if recognizedPhases(agg) >= 2 {
		sections = append(sections, fmt.Sprintf(
			"**Multi-Phase Kill Chain**: The progression BRUTE_FORCE → UNAUTHORIZED_LOGIN → MALICIOUS_ACCESS → CONFIG_WIPE follows a textbook attack lifecycle: "+
				"initial access → credential validation → privilege escalation → data destruction. "+
				"The CONFIG_WIPE phase (%d events) indicates the attacker intended to cover tracks and disable defensive infrastructure.",
			agg.ActionCounts[models.ActionConfigWipe]))
	}

	if agg.CorruptedCount > 0 {
		sections = append(sections, fmt.Sprintf(
			"**Log Evasion via Field Stripping**: %d entries (%s%%) have deliberately nullified fields. "+
				"This anti-forensic technique aims to prevent log correlation across SIEM systems.",
			agg.CorruptedCount, agg.CorruptedPct))
	}

	if hasUnknownEntity(agg) {
		sections = append(sections, fmt.Sprintf(
			"**Phantom Infrastructure Probing**: %d events carried no resolvable server identifier, "+
				"possibly to test monitoring blind spots or trigger false allocation of defensive resources.",
			agg.MissingServerCount))
	}

	var b strings.Builder
	b.WriteString("Based on observable data patterns:\n")
	for i, s := range sections {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, s)
	}
	return b.String()
}

// ImmediateActions renders the containment checklist.
func ImmediateActions(agg *models.AggregateStatistics) []string {
	actions := []string{
		fmt.Sprintf("ISOLATE servers %s from the network immediately — %d critical-risk events originated from or targeted these assets.",
			joinOr(agg.UniqueServers, models.SentinelUnknown), agg.CriticalCount),
		fmt.Sprintf("REVOKE credentials for users: %s. Force password reset and invalidate all active sessions.",
			joinOr(agg.UniqueUsers, models.SentinelAnonymous)),
		fmt.Sprintf("BLOCK source identifiers: %s at the WAF/perimeter firewall level pending full investigation.",
			sourceList(agg)),
	}
	if n := agg.ActionCounts[models.ActionConfigWipe]; n > 0 {
		actions = append(actions, fmt.Sprintf(
			"FREEZE configuration changes on firewalls %s — %d CONFIG_WIPE attempts indicate active sabotage.",
			joinOr(agg.UniqueFirewalls, models.SentinelUnknown), n))
	}
	actions = append(actions,
		"ENABLE enhanced logging with full packet capture on all identified assets for forensic evidence preservation.",
		fmt.Sprintf("DEPLOY honeypot instances mirroring the most-targeted identifiers (%s) to detect continued attacker reconnection attempts.",
			topEntityNames(agg)),
		"NOTIFY the incident response team and begin evidence collection under chain-of-custody protocols.",
	)
	return actions
}

// RecoveryStrategy renders the restoration checklist.
func RecoveryStrategy(agg *models.AggregateStatistics) []string {
	return []string{
		fmt.Sprintf("Perform complete integrity audit of configurations on %d affected servers. Compare against last-known-good configuration snapshots.",
			len(agg.UniqueServers)),
		fmt.Sprintf("Restore any wiped configurations from verified backup (pre-%s snapshot). Validate backup integrity via checksum before deployment.",
			agg.FirstEvent),
		"Re-image compromised servers if rootkit or persistent backdoor indicators are found during forensic analysis.",
		fmt.Sprintf("Rotate all API keys, service account tokens, and database credentials that may have been exposed during the %ss attack window.",
			f2(agg.DurationSeconds)),
		fmt.Sprintf("Conduct full blockchain transaction audit — %d events had blockchain_tx hashes and %d did not. Verify ledger integrity.",
			agg.WithLedgerTx, agg.WithoutLedgerTx),
		fmt.Sprintf("Perform memory forensics on %s to detect fileless malware or injected processes.",
			joinOr(agg.UniqueServers, models.SentinelUnknown)),
		"Re-establish network segmentation — verify that micro-segmentation rules were not altered during the attack window.",
	}
}

// LongTermPrevention renders the hardening roadmap.
func LongTermPrevention(agg *models.AggregateStatistics) []string {
	prevention := []string{
		fmt.Sprintf("Implement adaptive rate-limiting with exponential backoff on all authentication endpoints. Current gap: %d BRUTE_FORCE attempts were not throttled.",
			agg.ActionCounts[models.ActionBruteForce]),
		fmt.Sprintf("Deploy MFA across all privileged accounts. This single control would have prevented %d UNAUTHORIZED_LOGIN attempts.",
			agg.ActionCounts[models.ActionUnauthorizedLogin]),
		fmt.Sprintf("Add schema validation to the log ingestion pipeline to reject entries with missing critical fields (current corruption rate: %s%%).",
			agg.CorruptedPct),
		"Implement real-time anomaly detection with auto-response: trigger network isolation when ML risk score exceeds 0.95 on ≥3 events within 1 second.",
		"Deploy SOAR (Security Orchestration, Automation, Response) playbooks for automated containment of brute-force campaigns.",
		"Establish configuration change-control with mandatory dual-approval for CONFIG_WIPE operations on production infrastructure.",
		"Create network-level ACLs to reject traffic targeting infrastructure identifiers outside the environment's inventory.",
		"Conduct quarterly red-team exercises simulating this exact attack chain: credential stuffing → lateral movement → config destruction.",
		"Integrate behavioral analytics to detect impossible-travel and device-switching patterns in user authentication flows.",
	}
	return prevention
}

// DatasetInsights renders observations about the dataset itself.
func DatasetInsights(agg *models.AggregateStatistics) []string {
	return []string{
		fmt.Sprintf("The dataset is likely synthetic or simulated, as evidenced by: (1) timestamp clustering within a %ss window, "+
			"(2) uniform ML risk score distribution (%s–%s), and (3) all events sharing log_source: %s.",
			f2(agg.DurationSeconds), f4(agg.MinRisk), f4(agg.MaxRisk), sourceList(agg)),
		"Despite synthetic characteristics, the attack patterns (kill chain progression, field nullification, phantom infrastructure probing) accurately model real-world APT behavior and are suitable for detection rule development.",
		fmt.Sprintf("For future detection enhancement: train ML models on the relationship between corrupted-field density and attack severity — this dataset shows %s%% corruption correlating with %s%% critical-risk events.",
			agg.CorruptedPct, agg.CriticalPct),
		fmt.Sprintf("Temporal clustering detection should be added as a primary anomaly signal — %d events in %ss (%s/sec) far exceeds any legitimate operational baseline.",
			agg.TotalEvents, f2(agg.DurationSeconds), f2(agg.EventsPerSecond)),
		fmt.Sprintf("Cross-reference blockchain_tx hashes against the immutable ledger to verify which %d events had valid on-chain attestation vs. potentially spoofed transactions.",
			agg.WithLedgerTx),
		fmt.Sprintf("Implement entropy analysis on user and server_id fields — the low cardinality (%d users, %d servers) despite %d events is itself an anomaly indicator.",
			len(agg.UniqueUsers), len(agg.UniqueServers), agg.TotalEvents),
	}
}

// Helpers shared by the templates.

func actionSummary(agg *models.AggregateStatistics) string {
	parts := make([]string, 0, len(agg.ActionBreakdown))
	for _, a := range agg.ActionBreakdown {
		parts = append(parts, fmt.Sprintf("%s (%d, %s%%)", a.Action, a.Count, a.Pct))
	}
	return strings.Join(parts, "; ")
}

func sourceList(agg *models.AggregateStatistics) string {
	return joinOr(agg.UniqueSources, models.SentinelUnknown)
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}

func recognizedPhases(agg *models.AggregateStatistics) int {
	phases := 0
	for _, action := range []string{
		models.ActionBruteForce,
		models.ActionUnauthorizedLogin,
		models.ActionMaliciousAccess,
		models.ActionConfigWipe,
	} {
		if agg.ActionCounts[action] > 0 {
			phases++
		}
	}
	return phases
}

func credentialAttacks(agg *models.AggregateStatistics) int {
	return agg.ActionCounts[models.ActionBruteForce] + agg.ActionCounts[models.ActionUnauthorizedLogin]
}

func hasUnknownEntity(agg *models.AggregateStatistics) bool {
	return agg.MissingServerCount > 0 || agg.MissingFirewallCount > 0
}

func topEntityNames(agg *models.AggregateStatistics) string {
	names := newOrderedSet()
	if len(agg.TopServers) > 0 {
		names.add(agg.TopServers[0].ID)
	}
	if len(agg.TopFirewalls) > 0 {
		names.add(agg.TopFirewalls[0].ID)
	}
	return joinOr(names.list(), models.SentinelUnknown)
}
