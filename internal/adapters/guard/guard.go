// Package guard wraps a snapshot store so that storage failures degrade into cache misses.
package guard

import (
	"context"
	"fmt"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
)

var _ ports.BlobStore = (*Store)(nil)

// Store is a ports.BlobStore that never returns an error.
// Failures of the wrapped store are logged as warnings and turned into a miss,
// a no-op or a zero count.
type Store struct {
	next   ports.BlobStore
	logger ports.Logger
}

// New wraps next.
func New(next ports.BlobStore, logger ports.Logger) *Store {
	return &Store{next: next, logger: logger}
}

// Get returns nil when the lookup fails.
func (s *Store) Get(ctx context.Context, key domain.CacheKey) (*domain.CachedEntry, error) {
	entry, err := s.next.Get(ctx, key)
	if err != nil {
		s.warn("read", err)
		return nil, nil
	}
	return entry, nil
}

// Set drops the write when it fails.
func (s *Store) Set(ctx context.Context, key domain.CacheKey, dataURL string) error {
	if err := s.next.Set(ctx, key, dataURL); err != nil {
		s.warn("write", err)
	}
	return nil
}

// DeleteOne ignores failures.
func (s *Store) DeleteOne(ctx context.Context, key domain.CacheKey) error {
	if err := s.next.DeleteOne(ctx, key); err != nil {
		s.warn("delete", err)
	}
	return nil
}

// DeleteBySubject reports zero removed entries when it fails.
func (s *Store) DeleteBySubject(ctx context.Context, subjectID string) (int, error) {
	n, err := s.next.DeleteBySubject(ctx, subjectID)
	if err != nil {
		s.warn("invalidate", err)
		return 0, nil
	}
	return n, nil
}

// DeleteExpired reports zero removed entries when it fails.
func (s *Store) DeleteExpired(ctx context.Context) (int, error) {
	n, err := s.next.DeleteExpired(ctx)
	if err != nil {
		s.warn("purge", err)
		return 0, nil
	}
	return n, nil
}

// DeleteAll ignores failures.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.next.DeleteAll(ctx); err != nil {
		s.warn("clear", err)
	}
	return nil
}

// Stats reports empty stats when it fails.
func (s *Store) Stats(ctx context.Context) (domain.CacheStats, error) {
	stats, err := s.next.Stats(ctx)
	if err != nil {
		s.warn("stats", err)
		return domain.CacheStats{}, nil
	}
	return stats, nil
}

// Close closes the wrapped store.
func (s *Store) Close() error {
	if err := s.next.Close(); err != nil {
		s.warn("close", err)
	}
	return nil
}

func (s *Store) warn(op string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(fmt.Sprintf("snapshot cache %s failed, continuing without cache: %v", op, err))
}
