package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	StatsCacheKeyPrefix = "inventory:dashboard:stats:"
	DefaultStatsTTL     = 30 * time.Second
)

// StatsCache holds the dashboard snapshot per calendar day key. A miss is
// reported as (nil, nil).
type StatsCache interface {
	Get(ctx context.Context, day string) (*domain.DashboardStats, error)
	Set(ctx context.Context, day string, stats domain.DashboardStats) error
	Invalidate(ctx context.Context) error
}

type NopStatsCache struct{}

func (NopStatsCache) Get(context.Context, string) (*domain.DashboardStats, error) { return nil, nil }
func (NopStatsCache) Set(context.Context, string, domain.DashboardStats) error   { return nil }
func (NopStatsCache) Invalidate(context.Context) error                           { return nil }

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &RedisStatsCache{client: client, ttl: ttl, logger: logger}
}

func statsKey(day string) string {
	return StatsCacheKeyPrefix + day
}

func (c *RedisStatsCache) Get(ctx context.Context, day string) (*domain.DashboardStats, error) {
	val, err := c.client.Get(ctx, statsKey(day)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		c.logger.Warn("Discarding unreadable cached stats", zap.String("key", statsKey(day)), zap.Error(err))
		return nil, nil
	}
	return &stats, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, day string, stats domain.DashboardStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, statsKey(day), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops every cached snapshot regardless of day.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, StatsCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
