package domain

import "time"

// CachedEntry is one persisted raster snapshot.
type CachedEntry struct {
	ID            string    `json:"id"`
	SubjectID     string    `json:"subjectId"`
	DataURL       string    `json:"dataUrl"`
	Timestamp     time.Time `json:"timestamp"`
	FormatVersion int       `json:"formatVersion"`
}

// ValidAt reports whether the entry may be served at now.
// An entry is valid only when it carries the current format version and its
// age does not exceed TTL.
func (e CachedEntry) ValidAt(now time.Time) bool {
	if e.FormatVersion != CurrentFormatVersion {
		return false
	}
	return now.Sub(e.Timestamp) <= TTL
}

// ExpiryCutoff returns the oldest timestamp still valid at now.
func ExpiryCutoff(now time.Time) time.Time {
	return now.Add(-TTL)
}

// CacheStats aggregates the contents of a snapshot store.
type CacheStats struct {
	Count      int
	TotalBytes int64
	Oldest     time.Time
	Newest     time.Time
}

// Observe folds one entry into the stats.
func (s *CacheStats) Observe(e CachedEntry) {
	s.Count++
	s.TotalBytes += int64(len(e.DataURL))
	if s.Oldest.IsZero() || e.Timestamp.Before(s.Oldest) {
		s.Oldest = e.Timestamp
	}
	if s.Newest.IsZero() || e.Timestamp.After(s.Newest) {
		s.Newest = e.Timestamp
	}
}

// SnapshotResult is what a display instance exposes to its presentation layer.
type SnapshotResult struct {
	DataURL   string
	IsLoading bool
	Err       error
}

// HasSnapshot reports whether a raster snapshot is available.
func (r SnapshotResult) HasSnapshot() bool {
	return r.DataURL != ""
}
