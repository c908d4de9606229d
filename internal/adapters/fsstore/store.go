// Package fsstore implements the snapshot store as one JSON file per entry on a billy filesystem.
package fsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	entriesDir = "entries"
	entryExt   = ".json"
)

var (
	_ ports.BlobStore = (*Store)(nil)

	errStoreClosed = zerr.New("store is closed")
)

// Store implements ports.BlobStore using a file-per-entry strategy.
// File names are the xxhash of the entry id; the id itself is kept inside the file.
type Store struct {
	fs    billy.Filesystem
	clock clockwork.Clock

	mu     sync.RWMutex
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp and expire entries.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates a store on top of fsys.
func New(fsys billy.Filesystem, opts ...Option) *Store {
	s := &Store{
		fs:    fsys,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOS creates a store rooted at dir on the local disk.
func NewOS(dir string, opts ...Option) *Store {
	return New(osfs.New(dir), opts...)
}

// NewMemory creates a store that lives only in memory.
func NewMemory(opts ...Option) *Store {
	return New(memfs.New(), opts...)
}

// Get retrieves the snapshot for key, deleting it if it is no longer valid.
func (s *Store) Get(_ context.Context, key domain.CacheKey) (*domain.CachedEntry, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}
	id := key.ID()
	name := filename(id)
	entry, err := s.read(name)
	s.mu.RUnlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(err, "id", id)
	}
	// A different id under the same name is a hash collision; the slot belongs to someone else.
	if entry.ID != id {
		return nil, nil
	}
	if !entry.ValidAt(s.now()) {
		if err := s.evict(name, entry); err != nil {
			return nil, zerr.With(err, "id", id)
		}
		return nil, nil
	}
	return entry, nil
}

// evict removes name if it still holds stale. The file is re-read under the write lock,
// so an entry rewritten since stale was read is kept.
func (s *Store) evict(name string, stale *domain.CachedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}

	current, err := s.read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if current.ID != stale.ID || !current.Timestamp.Equal(stale.Timestamp) || current.FormatVersion != stale.FormatVersion {
		return nil
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}
	return nil
}

// Set writes the snapshot for key, replacing any previous entry.
func (s *Store) Set(_ context.Context, key domain.CacheKey, dataURL string) error {
	entry := domain.CachedEntry{
		ID:            key.ID(),
		SubjectID:     key.SubjectID,
		DataURL:       dataURL,
		Timestamp:     s.now(),
		FormatVersion: domain.CurrentFormatVersion,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}

	if err := s.fs.MkdirAll(entriesDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreUnavailable.Error())
	}
	if err := util.WriteFile(s.fs, filename(entry.ID), data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTransactionFailed.Error()), "id", entry.ID)
	}
	return nil
}

// DeleteOne removes the entry for key.
func (s *Store) DeleteOne(_ context.Context, key domain.CacheKey) error {
	return s.remove(filename(key.ID()))
}

// DeleteBySubject removes every entry of subjectID.
func (s *Store) DeleteBySubject(_ context.Context, subjectID string) (int, error) {
	n, err := s.removeWhere(func(e *domain.CachedEntry) bool {
		return e != nil && e.SubjectID == subjectID
	})
	if err != nil {
		return n, zerr.With(err, "subject", subjectID)
	}
	return n, nil
}

// DeleteExpired removes expired, stale-format and unreadable entries.
func (s *Store) DeleteExpired(_ context.Context) (int, error) {
	now := s.now()
	return s.removeWhere(func(e *domain.CachedEntry) bool {
		return e == nil || !e.ValidAt(now)
	})
}

// DeleteAll removes every entry.
func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}
	if err := util.RemoveAll(s.fs, entriesDir); err != nil {
		return zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}
	return nil
}

// Stats aggregates the readable entries, including ones that expired but were not yet purged.
func (s *Store) Stats(_ context.Context) (domain.CacheStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.CacheStats{}, zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}

	var stats domain.CacheStats
	err := s.scan(func(_ string, e *domain.CachedEntry) error {
		if e != nil {
			stats.Observe(*e)
		}
		return nil
	})
	return stats, err
}

// Close marks the store closed. Later operations fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) removeWhere(match func(*domain.CachedEntry) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}

	removed := 0
	err := s.scan(func(name string, e *domain.CachedEntry) error {
		if !match(e) {
			return nil
		}
		if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.Wrap(err, domain.ErrTransactionFailed.Error())
		}
		removed++
		return nil
	})
	return removed, err
}

// scan calls fn for every entry file. Unreadable files are passed as nil.
// Callers must hold the lock.
func (s *Store) scan(fn func(name string, e *domain.CachedEntry) error) error {
	infos, err := s.fs.ReadDir(entriesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}

	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), entryExt) {
			continue
		}
		name := s.fs.Join(entriesDir, info.Name())
		entry, err := s.read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			entry = nil
		}
		if err := fn(name, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) read(name string) (*domain.CachedEntry, error) {
	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}

	var entry domain.CachedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}
	return &entry, nil
}

func (s *Store) remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zerr.Wrap(errStoreClosed, domain.ErrStoreUnavailable.Error())
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrTransactionFailed.Error())
	}
	return nil
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func filename(id string) string {
	return fmt.Sprintf("%s/%016x%s", entriesDir, xxhash.Sum64String(id), entryExt)
}
