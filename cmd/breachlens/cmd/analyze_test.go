package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachlens/internal/logging"
)

const testDataset = "timestamp,server_id,firewall_id,user,action_type,status,ml_risk_score,log_source\n" +
	"2025-03-14T09:00:00.000Z,srv-1,fw-1,root,BRUTE_FORCE,FAILED,0.95,auth-gw\n" +
	"2025-03-14T09:00:01.000Z,srv-1,fw-1,root,CONFIG_WIPE,FAILED,0.99,auth-gw\n"

func writeTestDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(testDataset), 0644))
	return path
}

func TestNewAnalyzeRunner(t *testing.T) {
	t.Cleanup(func() { _ = logging.Close() })

	runner, err := NewAnalyzeRunner(&AnalyzeOptions{Path: "dataset.csv"})
	require.NoError(t, err)
	require.NotNil(t, runner)
}

func TestAnalyzeRunner_Run(t *testing.T) {
	t.Cleanup(func() { _ = logging.Close() })

	t.Run("writes a report file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.json")
		runner, err := NewAnalyzeRunner(&AnalyzeOptions{
			Path:   writeTestDataset(t),
			Output: out,
			Pretty: true,
		})
		require.NoError(t, err)

		require.NoError(t, runner.Run())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"breachId": "BREACH-`)
		assert.Contains(t, string(data), `"totalLogs": 2`)
	})

	t.Run("missing dataset fails", func(t *testing.T) {
		runner, err := NewAnalyzeRunner(&AnalyzeOptions{
			Path: filepath.Join(t.TempDir(), "absent.csv"),
		})
		require.NoError(t, err)

		assert.Error(t, runner.Run())
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("analyze flags", func(t *testing.T) {
		cmd := setupAnalyzeCmd()
		assert.Equal(t, "analyze [path]", cmd.Use)
		assert.NotNil(t, cmd.Flags().Lookup("pretty"))
		assert.NotNil(t, cmd.Flags().Lookup("out"))
		assert.NotNil(t, cmd.Flags().Lookup("summary"))
	})

	t.Run("preview flags", func(t *testing.T) {
		cmd := setupPreviewCmd()
		assert.NotNil(t, cmd.Flags().Lookup("limit"))
	})

	t.Run("serve flags", func(t *testing.T) {
		cmd := setupServeCmd()
		assert.NotNil(t, cmd.Flags().Lookup("addr"))
		assert.NotNil(t, cmd.Flags().Lookup("dataset"))
		assert.NotNil(t, cmd.Flags().Lookup("dsn"))
	})

	t.Run("watch flags", func(t *testing.T) {
		cmd := setupWatchCmd()
		assert.NotNil(t, cmd.Flags().Lookup("debounce"))
		assert.NotNil(t, cmd.Flags().Lookup("pretty"))
	})
}

func TestDefaultWatchOptions(t *testing.T) {
	opts := DefaultWatchOptions()
	assert.Greater(t, int64(opts.Debounce), int64(0))
	assert.False(t, opts.Pretty)
}
