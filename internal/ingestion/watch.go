package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nxadm/tail"
	"go.uber.org/zap"

	"breachlens/internal/models"
	"breachlens/internal/normalize"
)

// WatchConfig controls tail-mode dataset following.
type WatchConfig struct {
	// Path is the CSV file to follow.
	Path string

	// Debounce is the quiet period after the last appended line before the
	// accumulated dataset is re-analyzed. Default: 2 seconds.
	Debounce time.Duration

	// Logger is the logger instance.
	Logger *zap.Logger
}

// Watch follows a growing CSV dataset and invokes fn with the full row set
// after each quiet period. The first line read is taken as the header; fn is
// only called once at least one data row has accumulated. Watch returns when
// the context is cancelled or the tail fails.
func Watch(ctx context.Context, cfg WatchConfig, fn func(rows []models.RowMap)) error {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t, err := tail.TailFile(cfg.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail dataset: %w", err)
	}
	defer t.Stop()

	var lines []string
	dirty := false

	timer := time.NewTimer(cfg.Debounce)
	defer timer.Stop()

	flush := func() {
		if !dirty || len(lines) < 2 {
			return
		}
		dirty = false
		rows, err := normalize.ParseCSV(strings.Join(lines, "\n"))
		if err != nil {
			logger.Warn("watch_parse_failed", zap.Error(err))
			return
		}
		fn(rows)
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()

		case line, ok := <-t.Lines:
			if !ok {
				flush()
				return nil
			}
			if line.Err != nil {
				logger.Warn("watch_read_error", zap.Error(line.Err))
				continue
			}
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			lines = append(lines, line.Text)
			dirty = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(cfg.Debounce)

		case <-timer.C:
			flush()
			timer.Reset(cfg.Debounce)
		}
	}
}
