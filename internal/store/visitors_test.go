package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVisitorLog(t *testing.T, now *time.Time) *VisitorLog {
	t.Helper()
	v, err := OpenVisitorLog(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	v.now = func() time.Time { return *now }
	return v
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	now := time.Now()
	v := newTestVisitorLog(t, &now)

	h := v.HashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, v.HashIP("203.0.113.7"))
	assert.NotEqual(t, h, v.HashIP("203.0.113.8"))
	assert.NotContains(t, h, "203")
}

func TestVisitorStats(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	v := newTestVisitorLog(t, &now)
	ctx := context.Background()

	require.NoError(t, v.Record(ctx, "1.1.1.1", "curl", "/"))
	require.NoError(t, v.Record(ctx, "1.1.1.1", "curl", "/api/features"))
	require.NoError(t, v.Record(ctx, "2.2.2.2", "firefox", "/"))

	now = now.Add(-3 * 24 * time.Hour)
	require.NoError(t, v.Record(ctx, "3.3.3.3", "safari", "/"))
	now = now.Add(3 * 24 * time.Hour)

	stats, err := v.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalVisitors)
	assert.EqualValues(t, 3, stats.UniqueVisitors)
	assert.EqualValues(t, 3, stats.VisitorsToday)
	assert.EqualValues(t, 4, stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, Count{Path: "/", Count: 3}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "firefox", stats.RecentVisitors[0].UserAgent)
}

func TestVisitorCleanup(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	v := newTestVisitorLog(t, &now)
	ctx := context.Background()

	now = now.Add(-400 * 24 * time.Hour)
	require.NoError(t, v.Record(ctx, "1.1.1.1", "old", "/"))
	now = now.Add(400 * 24 * time.Hour)
	require.NoError(t, v.Record(ctx, "1.1.1.1", "new", "/"))

	n, err := v.Cleanup(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	recent, err := v.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].UserAgent)
}
