package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachlens/internal/models"
)

func TestWatch_MissingFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := Watch(ctx, WatchConfig{
		Path: filepath.Join(t.TempDir(), "absent.csv"),
	}, func([]models.RowMap) {})

	assert.Error(t, err)
}

func TestWatch_EmitsAccumulatedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.csv")
	content := "timestamp,server_id,ml_risk_score\n" +
		"2025-03-14T09:00:00.000Z,srv-1,0.95\n" +
		"2025-03-14T09:00:01.000Z,srv-2,0.91\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan []models.RowMap, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{Path: path, Debounce: 100 * time.Millisecond}, func(rows []models.RowMap) {
			select {
			case got <- rows:
			default:
			}
		})
	}()

	select {
	case rows := <-got:
		require.Len(t, rows, 2)
		assert.Equal(t, "srv-1", rows[0][models.ColServerID])
		assert.Equal(t, "srv-2", rows[1][models.ColServerID])
	case <-ctx.Done():
		t.Fatal("timed out waiting for the first analysis callback")
	}

	cancel()
	err := <-done
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("Watch returned unexpected error: %v", err)
	}
}
