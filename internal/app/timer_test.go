package app

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerFiresOnce(t *testing.T) {
	fired := make(chan struct{}, 2)
	h := NewTimerScheduler().Schedule(10*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.False(t, h.Cancel(), "Cancel after fire must report false")

	select {
	case <-fired:
		t.Fatal("timer fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerCancelBeforeFire(t *testing.T) {
	var fired atomic.Bool
	h := NewTimerScheduler().Schedule(50*time.Millisecond, func() { fired.Store(true) })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "second Cancel must report false")

	time.Sleep(100 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestTimerCancelRace(t *testing.T) {
	s := NewTimerScheduler()
	for range 200 {
		var fired atomic.Int32
		done := make(chan struct{})
		h := s.Schedule(time.Microsecond, func() {
			fired.Add(1)
			close(done)
		})

		var cancelled atomic.Bool
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			cancelled.Store(h.Cancel())
		}()
		wg.Wait()

		if cancelled.Load() {
			assert.Zero(t, fired.Load())
			continue
		}
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Cancel lost the race but the callback never ran")
		}
		assert.Equal(t, int32(1), fired.Load())
	}
}
