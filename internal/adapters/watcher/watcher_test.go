package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chartcache/internal/adapters/watcher"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
)

func TestSubjectID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{path: "/data/pet-bottles.json", want: "pet-bottles", ok: true},
		{path: "data/survey.YAML", want: "survey", ok: true},
		{path: "survey.yml", want: "survey", ok: true},
		{path: "/data/notes.txt"},
		{path: "/data/.pets.json"},
		{path: "/data/pets.json~"},
		{path: "/data/a|b.json"},
		{path: "/data/.json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, ok := watcher.SubjectID(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func nextEvent(t *testing.T, events <-chan ports.WatchEvent, name string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s", name)
			if filepath.Base(ev.Path) == name {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", name)
		}
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(nested, 0o750))

	w, err := watcher.New(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() { _ = w.Stop() })

	events := make(chan ports.WatchEvent)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	require.NoError(t, os.WriteFile(filepath.Join(root, "pets.json"), []byte(`{}`), 0o600))
	ev := nextEvent(t, events, "pets.json")
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "bottles.yaml"), []byte("a: 1"), 0o600))
	nextEvent(t, events, "bottles.yaml")

	require.NoError(t, os.Remove(filepath.Join(root, "pets.json")))
	ev = nextEvent(t, events, "pets.json")
	for ev.Operation != ports.OpRemove {
		ev = nextEvent(t, events, "pets.json")
	}

	cancel()
	for range events {
	}
}

func TestWatcher_StartErrors(t *testing.T) {
	t.Parallel()

	w, err := watcher.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatchFailed.Error())

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	err = w.Start(context.Background(), file)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatchFailed.Error())
}
