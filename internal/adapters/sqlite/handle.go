// Package sqlite implements the snapshot store on top of an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/chartcache/internal/adapters/sqlite/migrations"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const openKey = "open"

var errHandleClosed = zerr.New("store handle is closed")

// Handle owns the database connection of a store.
// The database is opened lazily on first use; concurrent openers share one attempt
// and a failed attempt is retried by the next caller.
type Handle struct {
	path  string
	group singleflight.Group

	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// NewHandle creates a handle for the database file at path. Nothing is opened yet.
func NewHandle(path string) *Handle {
	return &Handle{path: path}
}

// Path returns the database location.
func (h *Handle) Path() string {
	return h.path
}

// Open returns the shared connection, opening and migrating the database if needed.
func (h *Handle) Open(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	switch {
	case h.closed:
		h.mu.Unlock()
		return nil, zerr.Wrap(errHandleClosed, domain.ErrStoreUnavailable.Error())
	case h.db != nil:
		db := h.db
		h.mu.Unlock()
		return db, nil
	}
	h.mu.Unlock()

	v, err, _ := h.group.Do(openKey, func() (any, error) {
		h.mu.Lock()
		if h.db != nil {
			db := h.db
			h.mu.Unlock()
			return db, nil
		}
		h.mu.Unlock()

		db, err := h.open(ctx)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			_ = db.Close()
			return nil, zerr.Wrap(errHandleClosed, domain.ErrStoreUnavailable.Error())
		}
		h.db = db
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	db, _ := v.(*sql.DB)
	return db, nil
}

func (h *Handle) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(h.path) == "" {
		return nil, zerr.With(domain.ErrStoreUnavailable, "reason", "empty database path")
	}

	memory := h.path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(h.path), domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnavailable.Error()), "path", h.path)
		}
	}

	db, err := sql.Open("sqlite", dsn(h.path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnavailable.Error()), "path", h.path)
	}
	if memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnavailable.Error()), "path", h.path)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnavailable.Error()), "path", h.path)
	}
	return db, nil
}

// Close releases the connection. Later Open calls fail with ErrStoreUnavailable.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return zerr.Wrap(err, "failed to close snapshot database")
}

func dsn(path string) string {
	if path == MemoryPath {
		return path
	}
	return filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
}
