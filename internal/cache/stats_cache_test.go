package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newUnreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       "localhost:0",
		MaxRetries: -1,
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func TestNopStatsCache(t *testing.T) {
	var c StatsCache = NopStatsCache{}
	got, err := c.Get(context.Background(), "2025-01-01")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(context.Background(), "2025-01-01", domain.DashboardStats{}))
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestRedisStatsCache_ErrorsWhenUnreachable(t *testing.T) {
	c := NewRedisStatsCache(newUnreachableRedis(), 0, zap.NewNop())
	assert.Equal(t, DefaultStatsTTL, c.ttl)

	got, err := c.Get(context.Background(), "2025-01-01")
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Error(t, c.Set(context.Background(), "2025-01-01", domain.DashboardStats{AsOf: time.Now()}))
	assert.Error(t, c.Invalidate(context.Background()))
	assert.Error(t, c.Ping(context.Background()))
}

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "inventory:dashboard:stats:2025-03-10", statsKey("2025-03-10"))
}
