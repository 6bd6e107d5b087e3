package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type scriptedRedisClient struct {
	count     int64
	expireErr error
	delCalls  int
}

func (c *scriptedRedisClient) Incr(context.Context, string) *redis.IntCmd {
	c.count++
	return redis.NewIntResult(c.count, nil)
}

func (c *scriptedRedisClient) Expire(context.Context, string, time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(c.expireErr == nil, c.expireErr)
}

func (c *scriptedRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.delCalls++
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisCounterIncrements(t *testing.T) {
	store := &RedisCounterStore{rdb: &scriptedRedisClient{}}
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := store.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, count)
	}
}

// A failed EXPIRE after a successful INCR would leave a counter that never
// resets, locking the client out for good. The store must report the error
// so the middleware fails open, and must not leave the TTL-less key behind.
func TestRedisCounterExpireFailureFailsOpen(t *testing.T) {
	client := &scriptedRedisClient{expireErr: errors.New("expire failed")}
	store := &RedisCounterStore{rdb: client}

	_, err := store.Incr(context.Background(), "k", time.Minute)
	require.Error(t, err)
	require.Equal(t, 1, client.delCalls)
}
