package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachlens/internal/errors"
	"breachlens/internal/models"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSVFile(t *testing.T) {
	t.Run("reads and parses rows", func(t *testing.T) {
		path := writeDataset(t,
			"timestamp,server_id,ml_risk_score\n"+
				"2025-03-14T09:00:00.000Z,srv-1,0.95\n"+
				"2025-03-14T09:00:01.000Z,srv-2,0.91\n")

		rows, err := ReadCSVFile(path)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "srv-1", rows[0][models.ColServerID])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCSVFile(filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, errors.ErrDatasetNotFound)
	})

	t.Run("header-only file is empty", func(t *testing.T) {
		path := writeDataset(t, "timestamp,server_id\n")

		_, err := ReadCSVFile(path)
		assert.ErrorIs(t, err, errors.ErrEmptyDataset)
	})
}
