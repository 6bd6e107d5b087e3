package worker

import (
	"context"
	"time"

	"arroyo_seco_api/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SessionSweeper garbage-collects session rows past their expiry. It runs
// once at startup and then on an interval; a redis SetNX lock keeps multiple
// instances from sweeping the same round.
type SessionSweeper struct {
	rdb      *redis.Client
	sessions repository.SessionRepository
	interval time.Duration
	lockKey  string
	lockTTL  time.Duration
	logger   zerolog.Logger
}

func NewSessionSweeper(
	rdb *redis.Client,
	sessions repository.SessionRepository,
	interval time.Duration,
	lockKey string,
	lockTTL time.Duration,
	logger zerolog.Logger,
) *SessionSweeper {
	return &SessionSweeper{
		rdb:      rdb,
		sessions: sessions,
		interval: interval,
		lockKey:  lockKey,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

func (w *SessionSweeper) Start(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("session sweeper started")
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("session sweeper stopping")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	if w.rdb != nil {
		acquired, err := w.rdb.SetNX(ctx, w.lockKey, "1", w.lockTTL).Result()
		if err != nil {
			// Skip the round; the next tick retries.
			w.logger.Warn().Err(err).Msg("could not reach redis for sweep lock")
			return
		}
		if !acquired {
			w.logger.Debug().Msg("another instance holds the sweep lock")
			return
		}
	}

	deleted, err := w.sessions.DeleteExpired(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("session sweep failed")
		return
	}
	if deleted > 0 {
		w.logger.Info().Int64("deleted", deleted).Msg("expired sessions swept")
	}
}
