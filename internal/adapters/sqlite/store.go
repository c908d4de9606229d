package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BlobStore = (*Store)(nil)

// Store implements ports.BlobStore using one SQLite table.
type Store struct {
	handle *Handle
	clock  clockwork.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp and expire entries.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// NewStore creates a store over the given handle.
func NewStore(handle *Handle, opts ...Option) *Store {
	s := &Store{
		handle: handle,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store for the database file at path.
func Open(path string, opts ...Option) *Store {
	return NewStore(NewHandle(path), opts...)
}

// Get retrieves the snapshot for key, deleting it if it is no longer valid.
func (s *Store) Get(ctx context.Context, key domain.CacheKey) (*domain.CachedEntry, error) {
	db, err := s.handle.Open(ctx)
	if err != nil {
		return nil, err
	}

	id := key.ID()
	row := db.QueryRowContext(ctx,
		`SELECT id, subject_id, data_url, timestamp, format_version
		 FROM snapshots
		 WHERE id = ?`,
		id,
	)

	var entry domain.CachedEntry
	var ts int64
	err = row.Scan(&entry.ID, &entry.SubjectID, &entry.DataURL, &ts, &entry.FormatVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTransactionFailed.Error()), "id", id)
	}
	entry.Timestamp = fromMillis(ts)

	if !entry.ValidAt(s.now()) {
		if _, err := s.evict(ctx, entry); err != nil {
			return nil, zerr.With(err, "id", id)
		}
		return nil, nil
	}
	return &entry, nil
}

// evict deletes the row of stale only if it still holds the values that were read.
// A row rewritten since then is kept.
func (s *Store) evict(ctx context.Context, stale domain.CachedEntry) (int, error) {
	return s.exec(ctx,
		`DELETE FROM snapshots WHERE id = ? AND timestamp = ? AND format_version = ?`,
		stale.ID, stale.Timestamp.UnixMilli(), stale.FormatVersion,
	)
}

// Set upserts the snapshot for key.
func (s *Store) Set(ctx context.Context, key domain.CacheKey, dataURL string) error {
	db, err := s.handle.Open(ctx)
	if err != nil {
		return err
	}

	id := key.ID()
	_, err = db.ExecContext(ctx,
		`INSERT INTO snapshots (id, subject_id, data_url, timestamp, format_version)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   subject_id = excluded.subject_id,
		   data_url = excluded.data_url,
		   timestamp = excluded.timestamp,
		   format_version = excluded.format_version`,
		id, key.SubjectID, dataURL, s.now().UnixMilli(), domain.CurrentFormatVersion,
	)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTransactionFailed.Error()), "id", id)
	}
	return nil
}

// DeleteOne removes the entry for key.
func (s *Store) DeleteOne(ctx context.Context, key domain.CacheKey) error {
	_, err := s.exec(ctx, `DELETE FROM snapshots WHERE id = ?`, key.ID())
	return err
}

// DeleteBySubject removes every entry of subjectID.
func (s *Store) DeleteBySubject(ctx context.Context, subjectID string) (int, error) {
	n, err := s.exec(ctx, `DELETE FROM snapshots WHERE subject_id = ?`, subjectID)
	if err != nil {
		return 0, zerr.With(err, "subject", subjectID)
	}
	return n, nil
}

// DeleteExpired removes entries older than domain.TTL or written with another format version.
func (s *Store) DeleteExpired(ctx context.Context) (int, error) {
	cutoff := domain.ExpiryCutoff(s.now()).UnixMilli()
	return s.exec(ctx,
		`DELETE FROM snapshots WHERE timestamp < ? OR format_version <> ?`,
		cutoff, domain.CurrentFormatVersion,
	)
}

// DeleteAll removes every entry.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.exec(ctx, `DELETE FROM snapshots`)
	return err
}

// Stats aggregates the stored entries, including ones that expired but were not yet purged.
func (s *Store) Stats(ctx context.Context) (domain.CacheStats, error) {
	db, err := s.handle.Open(ctx)
	if err != nil {
		return domain.CacheStats{}, err
	}

	var (
		count          int
		total          sql.NullInt64
		oldest, newest sql.NullInt64
	)
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(LENGTH(data_url)), MIN(timestamp), MAX(timestamp) FROM snapshots`,
	).Scan(&count, &total, &oldest, &newest)
	if err != nil {
		return domain.CacheStats{}, zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}

	stats := domain.CacheStats{Count: count, TotalBytes: total.Int64}
	if oldest.Valid {
		stats.Oldest = fromMillis(oldest.Int64)
	}
	if newest.Valid {
		stats.Newest = fromMillis(newest.Int64)
	}
	return stats, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.handle.Close()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int, error) {
	db, err := s.handle.Open(ctx)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}
	return int(n), nil
}

// now is truncated to the millisecond precision the table stores.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
