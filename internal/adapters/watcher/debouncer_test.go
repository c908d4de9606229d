package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chartcache/internal/adapters/watcher"
)

func TestDebouncer_CoalescesKeys(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(keys []string) {
			callCount++
			received = keys
		})

		d.Add("pets")
		d.Add("bottles")
		d.Add("pets")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"bottles", "pets"}, received)
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("a")
		time.Sleep(50 * time.Millisecond)
		d.Add("b")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 0, callCount)
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 1, callCount)
		mu.Unlock()
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(keys []string) {
			callCount++
			received = keys
		})

		d.Add("b")
		d.Add("a")
		d.Flush()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"a", "b"}, received)

		// The original timer must not deliver the keys again.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	var callCount int
	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { callCount++ })

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) { callCount++ })

		d.Add("a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, callCount)

		d.Flush()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("b")
		d.Flush()
	})
}
