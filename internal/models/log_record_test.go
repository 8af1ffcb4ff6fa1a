package models

import (
	"encoding/json"
	"testing"
)

func fullRecord() *LogRecord {
	return &LogRecord{
		RawTimestamp: StringField("2025-03-14T09:00:00.000Z"),
		ServerID:     StringField("srv-101"),
		FirewallID:   StringField("fw-1"),
		User:         StringField("admin"),
		ActionType:   StringField(ActionBruteForce),
		Status:       StringField(StatusFailed),
		RiskScore:    0.97,
	}
}

func TestLogRecord_Corrupted(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LogRecord)
		want   bool
	}{
		{"all required fields present", func(r *LogRecord) {}, false},
		{"missing server_id", func(r *LogRecord) { r.ServerID = AbsentField() }, true},
		{"missing firewall_id", func(r *LogRecord) { r.FirewallID = AbsentField() }, true},
		{"missing user", func(r *LogRecord) { r.User = AbsentField() }, true},
		{"missing action_type", func(r *LogRecord) { r.ActionType = AbsentField() }, true},
		{"missing timestamp", func(r *LogRecord) { r.RawTimestamp = AbsentField() }, true},
		{"missing optional notes only", func(r *LogRecord) { r.Notes = AbsentField() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fullRecord()
			tt.mutate(r)
			if got := r.Corrupted(); got != tt.want {
				t.Errorf("Corrupted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogRecord_Critical(t *testing.T) {
	tests := []struct {
		name string
		risk float64
		want bool
	}{
		{"above threshold", 0.97, true},
		{"exactly at threshold", 0.9, true},
		{"below threshold", 0.89, false},
		{"zero score", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &LogRecord{RiskScore: tt.risk}
			if got := r.Critical(); got != tt.want {
				t.Errorf("Critical() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogRecord_Failed(t *testing.T) {
	tests := []struct {
		name   string
		status Field
		want   bool
	}{
		{"FAILED status", StringField(StatusFailed), true},
		{"SUCCESS status", StringField("SUCCESS"), false},
		{"absent status", AbsentField(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &LogRecord{Status: tt.status}
			if got := r.Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogRecord_Sentinels(t *testing.T) {
	r := &LogRecord{}
	if got := r.Action(); got != SentinelUnknown {
		t.Errorf("Action() on empty record = %q, want %q", got, SentinelUnknown)
	}
	if got := r.TimeKey(); got != SentinelNoTime {
		t.Errorf("TimeKey() on empty record = %q, want %q", got, SentinelNoTime)
	}

	r.ActionType = StringField(ActionConfigWipe)
	r.RawTimestamp = StringField("2025-03-14T09:00:00.000Z")
	if got := r.Action(); got != ActionConfigWipe {
		t.Errorf("Action() = %q, want %q", got, ActionConfigWipe)
	}
	if got := r.TimeKey(); got != "2025-03-14T09:00:00.000Z" {
		t.Errorf("TimeKey() = %q", got)
	}
}

func TestLogRecord_ToJSON(t *testing.T) {
	r := fullRecord()
	data, err := r.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["server_id"] != "srv-101" {
		t.Errorf("server_id = %v, want srv-101", decoded["server_id"])
	}
	if decoded["notes"] != nil {
		t.Errorf("absent notes should encode as null, got %v", decoded["notes"])
	}
}
