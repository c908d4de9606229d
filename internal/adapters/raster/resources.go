package raster

import (
	"bytes"
	"io"
	"strconv"
	"sync"
)

const resourceScheme = "blob:chartcache/"

// Resources is a table of transient object resources addressed by blob: URLs.
// Serialized scenes are registered here for the duration of one decode and
// must be revoked afterwards.
type Resources struct {
	mu    sync.Mutex
	seq   uint64
	items map[string][]byte
}

// NewResources creates an empty table.
func NewResources() *Resources {
	return &Resources{items: make(map[string][]byte)}
}

// Create registers data and returns its URL.
func (r *Resources) Create(data []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	url := resourceScheme + strconv.FormatUint(r.seq, 10)
	r.items[url] = data
	return url
}

// Open returns a reader over the resource at url.
func (r *Resources) Open(url string) (io.Reader, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok := r.items[url]
	if !ok {
		return nil, false
	}
	return bytes.NewReader(data), true
}

// Revoke releases the resource at url. Revoking twice is a no-op.
func (r *Resources) Revoke(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, url)
}

// Len returns the number of live resources.
func (r *Resources) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
