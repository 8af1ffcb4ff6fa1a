package normalize

import (
	"errors"
	"testing"
	"time"

	breacherrors "breachlens/internal/errors"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339 with millis and Z",
			input: "2025-03-14T09:00:00.120Z",
			want:  time.Date(2025, 3, 14, 9, 0, 0, 120000000, time.UTC),
		},
		{
			name:  "RFC3339 without fraction",
			input: "2025-03-14T09:00:00Z",
			want:  time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "offset is normalized to UTC",
			input: "2025-03-14T11:00:00+02:00",
			want:  time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "space-separated layout",
			input: "2025-03-14 09:00:00",
			want:  time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "slash-separated layout",
			input: "2025/03/14 09:00:00",
			want:  time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage text",
			input:   "corrupted#entry",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, breacherrors.ErrUnparsableTimestamp) {
					t.Errorf("error should wrap ErrUnparsableTimestamp, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
