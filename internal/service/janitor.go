package service

import (
	"context"
	"log/slog"
	"time"
)

type expiringCache interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// CacheJanitor periodically deletes expired Idempotency-Key replay entries.
type CacheJanitor struct {
	cache    expiringCache
	logger   *slog.Logger
	interval time.Duration
}

func NewCacheJanitor(cache expiringCache, logger *slog.Logger, interval time.Duration) *CacheJanitor {
	return &CacheJanitor{cache: cache, logger: logger, interval: interval}
}

func (j *CacheJanitor) Start(ctx context.Context) {
	j.logger.Info("cache janitor started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cache janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *CacheJanitor) sweep(ctx context.Context) {
	n, err := j.cache.CleanExpired(ctx)
	if err != nil {
		j.logger.Error("failed to clean idempotency cache", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("idempotency cache cleaned", "removed", n)
	}
}
