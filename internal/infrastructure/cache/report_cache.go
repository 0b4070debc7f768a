package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
)

const reportKeyPrefix = "cost-report:"

// ReportCache memoizes cost reports by the digest of their inputs.
// A miss is reported as (nil, nil).
type ReportCache interface {
	Get(ctx context.Context, key string) (*costing.Report, error)
	Set(ctx context.Context, key string, report *costing.Report) error
}

type redisReportCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisReportCache stores reports as JSON with the given TTL
func NewRedisReportCache(rdb redis.Cmdable, ttl time.Duration) ReportCache {
	return &redisReportCache{rdb: rdb, ttl: ttl}
}

func (c *redisReportCache) Get(ctx context.Context, key string) (*costing.Report, error) {
	val, err := c.rdb.Get(ctx, reportKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var report costing.Report
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return &report, nil
}

func (c *redisReportCache) Set(ctx context.Context, key string, report *costing.Report) error {
	val, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", key, err)
	}
	return c.rdb.Set(ctx, reportKeyPrefix+key, val, c.ttl).Err()
}

// NewRedisClient connects to addr and pings it
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

type nopReportCache struct{}

// NewNopReportCache returns a cache that never hits
func NewNopReportCache() ReportCache {
	return nopReportCache{}
}

func (nopReportCache) Get(context.Context, string) (*costing.Report, error) { return nil, nil }

func (nopReportCache) Set(context.Context, string, *costing.Report) error { return nil }
