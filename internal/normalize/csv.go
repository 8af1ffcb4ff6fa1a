// Package normalize turns raw tabular text or loosely-typed rows into
// canonical LogRecord sequences. Missing and malformed fields degrade to
// documented defaults; the only fatal condition is an empty dataset.
package normalize

import (
	"encoding/csv"
	"io"
	"strings"

	"go.uber.org/zap"

	"breachlens/internal/errors"
	"breachlens/internal/logging"
	"breachlens/internal/models"
)

// ParseCSV parses comma-delimited text with a header row into row maps.
// Tolerates \r\n line endings and quoted fields, skips blank lines, and pads
// rows with fewer values than headers with absent trailing columns. A row of
// bare delimiters is kept as an all-absent record, not skipped. Returns
// ErrEmptyDataset when no data row follows the header.
func ParseCSV(text string) ([]models.RowMap, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // short and long rows are recovered, not fatal
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewEmptyDatasetError("csv input")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []models.RowMap
	line := 1
	for {
		values, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			// Unsplittable line: recover by skipping, per the malformed-row
			// contract. encoding/csv only fails here on bare-quote damage.
			continue
		}
		// Whitespace-only lines surface as a single empty field. A row of
		// bare delimiters (",,,,") is different: every column is present but
		// empty, and it must survive as an all-absent record so corruption
		// counts see it.
		if len(values) == 1 && strings.TrimSpace(values[0]) == "" {
			continue
		}
		if len(values) < len(header) {
			logging.L().Debug("short_row_padded",
				logging.ErrorCode(string(errors.ErrCodeMalformedRow)),
				zap.Error(errors.NewMalformedRowError(line, len(values), len(header))))
		}
		row := make(models.RowMap, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(values) {
				row[h] = strings.TrimSpace(values[i])
			}
			// Columns past the row's end stay unset: absent, not an error.
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.NewEmptyDatasetError("csv input")
	}
	return rows, nil
}
