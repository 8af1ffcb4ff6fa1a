package normalize

import (
	"time"

	"breachlens/internal/errors"
)

// ISOFormat is the output layout for event times. UTC is rendered with a
// trailing Z, matching the wire format the report exposes.
const ISOFormat = "2006-01-02T15:04:05.000Z07:00"

var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05.000",
}

// ParseTimestamp parses a timestamp in any of the accepted layouts and
// normalizes it to UTC. An unparsable value yields ErrUnparsableTimestamp;
// callers recover by excluding the record from the temporal set.
func ParseTimestamp(s string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.NewUnparsableTimestampError(s)
}
