package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = Close() })
	return mr
}

func TestNilClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	SetCached(ctx, DashboardStatsKey, []byte("x"), time.Minute)
	_, ok := GetCached(ctx, DashboardStatsKey)
	assert.False(t, ok)
	InvalidateDashboardCaches(ctx)
	assert.False(t, IsHealthy())
}

func TestSetGetAndExpiry(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	SetCached(ctx, DashboardStatsKey, []byte(`{"totalJobs":3}`), DashboardTTL)
	data, ok := GetCached(ctx, DashboardStatsKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"totalJobs":3}`, string(data))

	mr.FastForward(DashboardTTL + time.Second)
	_, ok = GetCached(ctx, DashboardStatsKey)
	assert.False(t, ok)
}

func TestInvalidateDashboardCaches(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	SetCached(ctx, DashboardStatsKey, []byte("a"), time.Minute)
	SetCached(ctx, DashboardChartKey, []byte("b"), time.Minute)
	SetCached(ctx, fmt.Sprintf(JobSummaryKeyFmt, "FAB1"), []byte("c"), time.Minute)
	SetCached(ctx, "other:key", []byte("d"), time.Minute)

	InvalidateDashboardCaches(ctx)

	for _, k := range []string{DashboardStatsKey, DashboardChartKey, fmt.Sprintf(JobSummaryKeyFmt, "FAB1")} {
		_, ok := GetCached(ctx, k)
		assert.False(t, ok, k)
	}
	_, ok := GetCached(ctx, "other:key")
	assert.True(t, ok)
	assert.True(t, IsHealthy())
}

func TestInitFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	err := Init(Options{Addr: addr})
	assert.Error(t, err)
	assert.Nil(t, GetClient())
}
