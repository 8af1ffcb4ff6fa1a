// Package ingestion provides dataset sources: CSV files, growing files
// followed in tail mode, and a Postgres store of historical rows. Sources
// only produce rows; analysis stays a pure function over them.
package ingestion

import (
	"os"

	"breachlens/internal/errors"
	"breachlens/internal/models"
	"breachlens/internal/normalize"
)

// ReadCSVFile loads a dataset file and parses it into rows.
func ReadCSVFile(path string) ([]models.RowMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDatasetNotFoundError(path)
		}
		return nil, errors.NewDatasetUnreadableError(path, err)
	}
	return normalize.ParseCSV(string(data))
}
