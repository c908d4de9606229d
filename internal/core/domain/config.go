package domain

import "time"

// StoreBackend selects the persistence adapter for snapshots.
type StoreBackend string

const (
	// BackendSQLite stores snapshots in a single SQLite database.
	BackendSQLite StoreBackend = "sqlite"
	// BackendFS stores snapshots as one JSON file per entry.
	BackendFS StoreBackend = "fs"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Root is the directory the configuration was resolved against.
	Root string

	StoreBackend StoreBackend
	// StorePath is the SQLite database file or the snapshot directory, depending on the backend.
	StorePath string

	// Scale is the rasterization oversampling factor.
	Scale float64
	// SettleDelay is how long a coordinator waits for the live scene before rasterizing.
	SettleDelay time.Duration
	// Fonts lists font files made available to rasterized scenes.
	Fonts []string

	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
}

// DefaultConfig returns the configuration used when no file or environment overrides exist.
func DefaultConfig() Config {
	return Config{
		Root:         ".",
		StoreBackend: BackendSQLite,
		StorePath:    DefaultSQLitePath(),
		Scale:        MinScale,
		SettleDelay:  DefaultSettleDelay,
	}
}
