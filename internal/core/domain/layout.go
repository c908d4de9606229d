package domain

import (
	"path/filepath"
	"time"
)

const (
	// DirName is the name of the internal workspace directory.
	DirName = ".chartcache"

	// SQLiteFileName is the name of the SQLite snapshot database.
	SQLiteFileName = "snapshots.db"

	// SnapshotDirName is the name of the filesystem snapshot store directory.
	SnapshotDirName = "snapshots"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "chartcache.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// TTL is the maximum age of a cached snapshot.
	TTL = 7 * 24 * time.Hour

	// CurrentFormatVersion is the snapshot format written by this build.
	// Entries carrying any other version are treated as absent.
	CurrentFormatVersion = 1

	// MinScale is the smallest oversampling factor used for rasterization.
	MinScale = 2.0

	// DefaultSettleDelay is how long the coordinator lets the live scene finish its own render pass.
	DefaultSettleDelay = 100 * time.Millisecond
)

// DefaultSQLitePath returns the default path for the SQLite snapshot database.
func DefaultSQLitePath() string {
	return filepath.Join(DirName, SQLiteFileName)
}

// DefaultSnapshotDir returns the default root for the filesystem snapshot store.
func DefaultSnapshotDir() string {
	return filepath.Join(DirName, SnapshotDirName)
}
