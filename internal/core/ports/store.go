package ports

import (
	"context"

	"go.trai.ch/chartcache/internal/core/domain"
)

// BlobStore defines durable local storage for raster snapshots.
//
// Entries older than domain.TTL or written with another format version are
// never returned; implementations delete them lazily when they are read.
// Concurrent writers to the same id are last-write-wins.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BlobStore interface {
	// Get retrieves the snapshot for the given key.
	// Returns nil, nil if no valid entry exists.
	Get(ctx context.Context, key domain.CacheKey) (*domain.CachedEntry, error)

	// Set stores dataURL under the key, stamped with the current time and format version.
	Set(ctx context.Context, key domain.CacheKey, dataURL string) error

	// DeleteOne removes the entry for a single key.
	DeleteOne(ctx context.Context, key domain.CacheKey) error

	// DeleteBySubject removes every entry of a subject regardless of variant or theme.
	// It returns the number of removed entries.
	DeleteBySubject(ctx context.Context, subjectID string) (int, error)

	// DeleteExpired removes expired and stale-format entries and returns how many were removed.
	DeleteExpired(ctx context.Context) (int, error)

	// DeleteAll removes every entry.
	DeleteAll(ctx context.Context) error

	// Stats aggregates the entries currently stored.
	Stats(ctx context.Context) (domain.CacheStats, error)

	// Close releases the underlying storage handle.
	Close() error
}
