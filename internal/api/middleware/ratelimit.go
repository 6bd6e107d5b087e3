package middleware

import (
	"context"
	"fmt"
	"hash/fnv"
	"net"
	"net/http"
	"sync"
	"time"

	"arroyo_seco_api/internal/common"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CounterStore increments the request count for a client key inside the
// current fixed window and returns the new count.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryCounterStore is the single-instance counter table: a mutex-guarded
// map pruned lazily once it grows past a threshold.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

const memoryPruneThreshold = 4096

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{windows: make(map[string]*memoryWindow)}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		if len(s.windows) >= memoryPruneThreshold {
			for k, stale := range s.windows {
				if now.After(stale.resetAt) {
					delete(s.windows, k)
				}
			}
		}
		s.windows[key] = &memoryWindow{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}
	w.count++
	return w.count, nil
}

// redisCounterClient is the slice of redis commands the counter store needs.
// *redis.Client satisfies it.
type redisCounterClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCounterStore shares counters across instances. The key expires with
// the window, so redis does the resetting.
type RedisCounterStore struct {
	rdb redisCounterClient
}

func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.rdb.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, "ratelimit:"+key, window).Err(); err != nil {
			// A key with no TTL would never reset and lock the client out
			// permanently. Drop it and report the error so the caller admits
			// the request.
			s.rdb.Del(ctx, "ratelimit:"+key)
			return 0, err
		}
	}
	return count, nil
}

// RateLimit rejects clients exceeding limit requests per window with a 429
// envelope. Counter-store failures fail open: admission control must never
// turn a redis outage into a full outage, and it never errors into handlers.
func RateLimit(store CounterStore, limit int, window time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, err := store.Incr(r.Context(), clientKey(r), window)
			if err != nil {
				logger.Warn().Err(err).Msg("rate limit counter unavailable, admitting request")
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(limit) {
				common.RespondWithError(w, &common.AppError{
					Code:    common.CodeRateLimitExceeded,
					Status:  http.StatusTooManyRequests,
					Message: "Too many requests, please slow down",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies a client by IP plus a User-Agent fingerprint, so two
// distinct clients behind one NAT don't fully share a bucket.
func clientKey(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	h := fnv.New32a()
	h.Write([]byte(r.UserAgent()))
	return fmt.Sprintf("%s:%x", ip, h.Sum32())
}
