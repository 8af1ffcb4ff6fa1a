package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachlens/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 500, cfg.Store.QueryLimit)
	assert.Equal(t, 7.0, cfg.Analysis.AttackRiskThreshold)
	assert.Equal(t, 20, cfg.Analysis.MaxPreviewRows)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults from YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "breachlens.yaml")
		content := `
server:
  addr: ":9090"
  default_dataset: faulty_logs_100.csv
store:
  dsn: postgres://localhost/breachlens
  query_limit: 250
analysis:
  attack_risk_threshold: 8.5
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "faulty_logs_100.csv", cfg.Server.DefaultDataset)
		assert.Equal(t, 250, cfg.Store.QueryLimit)
		assert.Equal(t, 8.5, cfg.Analysis.AttackRiskThreshold)
		// Untouched sections keep their defaults.
		assert.Equal(t, 20, cfg.Analysis.MaxPreviewRows)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, errors.ErrConfigMissing)
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("analysis:\n  attack_risk_threshold: 42\n"), 0644))

		_, err := Load(path)
		assert.ErrorIs(t, err, errors.ErrConfigValidation)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"negative query limit", func(c *Config) { c.Store.QueryLimit = -1 }, true},
		{"threshold above ten", func(c *Config) { c.Analysis.AttackRiskThreshold = 10.5 }, true},
		{"zero preview rows", func(c *Config) { c.Analysis.MaxPreviewRows = 0 }, true},
		{"threshold at bounds", func(c *Config) { c.Analysis.AttackRiskThreshold = 10 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
