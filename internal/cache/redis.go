package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard Cache Keys
const (
	DashboardStatsKey = "dashboard:stats"
	DashboardChartKey = "dashboard:chart"
	JobSummaryKeyFmt  = "dashboard:summary:%s"

	DashboardTTL = 30 * time.Second
)

var client *redis.Client

// Options describes where Redis lives
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Init initializes the Redis connection. On failure the client stays nil and
// every cache call becomes a no-op.
func Init(opts Options) error {
	c := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		c.Close()
		client = nil
		return err
	}
	client = c
	return nil
}

// SetClient replaces the Redis client; nil disables caching
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection if one is open
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// ============================================
// Cache Invalidation Functions
// ============================================

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateDashboardCaches clears stats, chart data and job summaries
// Called when: CreateJob, AdvanceStage, stage side effects, any expense change
func InvalidateDashboardCaches(ctx context.Context) {
	InvalidatePattern(ctx, "dashboard:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
