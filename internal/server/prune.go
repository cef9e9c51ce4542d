package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/stepwise/internal/store"
)

// StartPruner runs a background goroutine that periodically deletes
// sessions idle for longer than ttl. It stops when ctx is cancelled.
func StartPruner(ctx context.Context, repo store.SessionRepo, ttl, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		logger.Info("session pruner started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				pruneOnce(ctx, repo, ttl, logger)
			case <-ctx.Done():
				logger.Info("session pruner shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func pruneOnce(ctx context.Context, repo store.SessionRepo, ttl time.Duration, logger *slog.Logger) int64 {
	if logger == nil {
		logger = slog.Default()
	}
	n, err := repo.PruneSessions(ctx, ttl)
	if err != nil {
		logger.Error("session pruner failed", "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("pruned idle sessions", "count", n)
	}
	return n
}
