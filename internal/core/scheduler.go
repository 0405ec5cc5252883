package core

// scheduler.go runs background maintenance for the import history.
//
// The pruner deletes history entries older than the retention window. It runs
// once at start, then on every interval tick until its context ends. A failed
// run is logged and retried on the next tick.

import (
	"context"
	"time"

	"github.com/JonMunkholm/bizdir/internal/logging"
)

// Default pruning settings used when a zero value is given.
const (
	DefaultHistoryRetention = 90 * 24 * time.Hour
	DefaultPruneInterval    = 24 * time.Hour
)

// HistoryPruner deletes import history recorded before a cutoff.
// History stores may implement it to support retention.
type HistoryPruner interface {
	PruneImports(ctx context.Context, before time.Time) (int64, error)
}

// PruneConfig holds the settings of the history pruner.
type PruneConfig struct {
	Retention time.Duration // Age after which entries are deleted (default: 90 days)
	Interval  time.Duration // How often to run (default: 24h)
}

// StartHistoryPruner blocks, pruning old import history until ctx is cancelled.
// It returns immediately when the history store does not support pruning.
func (s *Service) StartHistoryPruner(ctx context.Context, cfg PruneConfig) {
	logger := logging.FromContext(ctx)

	pruner, ok := s.history.(HistoryPruner)
	if !ok {
		logger.Debug("history pruner disabled: store does not support pruning")
		return
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultHistoryRetention
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPruneInterval
	}

	logger.Info("history pruner started", "retention", cfg.Retention, "interval", cfg.Interval)

	s.pruneHistory(ctx, pruner, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("history pruner stopped")
			return
		case <-ticker.C:
			s.pruneHistory(ctx, pruner, cfg.Retention)
		}
	}
}

// pruneHistory performs one pruning pass.
func (s *Service) pruneHistory(ctx context.Context, pruner HistoryPruner, retention time.Duration) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	cutoff := start.Add(-retention).UTC()

	deleted, err := pruner.PruneImports(ctx, cutoff)
	if err != nil {
		logger.Error("history prune failed", "error", err)
		return
	}

	logger.Info("pruned import history",
		"entries_deleted", deleted,
		"cutoff", cutoff,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
