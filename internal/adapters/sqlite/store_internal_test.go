package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chartcache/internal/core/domain"
)

func TestStore_EvictKeepsRewrittenRow(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewStore(NewHandle(filepath.Join(t.TempDir(), domain.SQLiteFileName)), WithClock(clock))
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	k := domain.NewCacheKey("pet-bottles", "recyclability", 300, 60, domain.ThemeFlags{}, domain.ContentInput{
		ConfidenceLevel: 0.95,
		Estimates:       map[string]domain.Estimate{"recycled": {Mean: 0.85, Lower: 0.8, Upper: 0.9}},
	})

	require.NoError(t, store.Set(ctx, k, "data:image/png;base64,T0xE"))
	stale, err := store.Get(ctx, k)
	require.NoError(t, err)
	require.NotNil(t, stale)

	// Another writer refreshes the row after the stale copy was read.
	clock.Advance(domain.TTL + time.Hour)
	require.NoError(t, store.Set(ctx, k, "data:image/png;base64,TkVX"))

	n, err := store.evict(ctx, *stale)
	require.NoError(t, err)
	assert.Zero(t, n)

	fresh, err := store.Get(ctx, k)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, "data:image/png;base64,TkVX", fresh.DataURL)

	n, err = store.evict(ctx, *fresh)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
