package fsstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chartcache/internal/adapters/fsstore"
	"go.trai.ch/chartcache/internal/core/domain"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func key(subject, variant string, highContrast bool) domain.CacheKey {
	return domain.NewCacheKey(subject, variant, 320, 200, domain.ThemeFlags{HighContrast: highContrast}, domain.ContentInput{
		ConfidenceLevel: 0.9,
		Estimates: map[string]domain.Estimate{
			"x": {Mean: 2, Lower: 1, Upper: 3},
		},
	})
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := fsstore.NewMemory(fsstore.WithClock(clockwork.NewFakeClockAt(epoch)))
	ctx := context.Background()
	k := key("exp-1", "forest", false)

	got, err := store.Get(ctx, k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set(ctx, k, "data:image/png;base64,AAAA"))

	got, err = store.Get(ctx, k)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.CachedEntry{
		ID:            k.ID(),
		SubjectID:     "exp-1",
		DataURL:       "data:image/png;base64,AAAA",
		Timestamp:     epoch,
		FormatVersion: domain.CurrentFormatVersion,
	}, *got)
}

func TestStore_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	store := fsstore.NewMemory(fsstore.WithClock(clock))
	ctx := context.Background()
	k := key("exp-1", "forest", false)
	require.NoError(t, store.Set(ctx, k, "data:x"))

	clock.Advance(domain.TTL)
	got, err := store.Get(ctx, k)
	require.NoError(t, err)
	assert.NotNil(t, got)

	clock.Advance(time.Millisecond)
	got, err = store.Get(ctx, k)
	require.NoError(t, err)
	assert.Nil(t, got)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
}

func TestStore_DeleteBySubject(t *testing.T) {
	t.Parallel()

	store := fsstore.NewMemory()
	ctx := context.Background()
	keys := []domain.CacheKey{
		key("exp-1", "forest", false),
		key("exp-1", "forest", true),
		key("exp-2", "forest", false),
	}
	for _, k := range keys {
		require.NoError(t, store.Set(ctx, k, "data:"+k.ID()))
	}

	n, err := store.DeleteBySubject(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
}

func TestStore_DeleteExpiredRemovesCorruptFiles(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	clock := clockwork.NewFakeClockAt(epoch)
	store := fsstore.New(fsys, fsstore.WithClock(clock))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, key("exp-1", "forest", false), "data:old"))
	clock.Advance(domain.TTL + time.Millisecond)
	require.NoError(t, store.Set(ctx, key("exp-2", "forest", false), "data:new"))
	require.NoError(t, util.WriteFile(fsys, "entries/0000000000000000.json", []byte("{ invalid json"), 0o600))

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, int64(len("data:new")), stats.TotalBytes)
}

func TestStore_DeleteOneAndAll(t *testing.T) {
	t.Parallel()

	store := fsstore.NewMemory()
	ctx := context.Background()
	a := key("exp-1", "forest", false)
	b := key("exp-2", "forest", false)
	require.NoError(t, store.Set(ctx, a, "data:a"))
	require.NoError(t, store.Set(ctx, b, "data:b"))

	require.NoError(t, store.DeleteOne(ctx, a))
	require.NoError(t, store.DeleteOne(ctx, a))

	got, err := store.Get(ctx, b)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, store.DeleteAll(ctx))
	require.NoError(t, store.DeleteAll(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheStats{}, stats)
}

func TestStore_OSPersistence(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), domain.SnapshotDirName)
	ctx := context.Background()
	k := key("exp-1", "forest", false)

	require.NoError(t, fsstore.NewOS(dir).Set(ctx, k, "data:x"))

	entries, err := os.ReadDir(filepath.Join(dir, "entries"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))

	got, err := fsstore.NewOS(dir).Get(ctx, k)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "data:x", got.DataURL)
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	store := fsstore.NewMemory()
	require.NoError(t, store.Close())

	err := store.Set(context.Background(), key("exp-1", "forest", false), "data:x")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnavailable.Error())
}
