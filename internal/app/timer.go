package app

import (
	"sync/atomic"
	"time"

	"github.com/dkeye/knxip/internal/core"
)

const (
	timerArmed int32 = iota
	timerFired
	timerCancelled
)

// TimerScheduler schedules one-shot callbacks on runtime timers.
type TimerScheduler struct{}

var _ core.Scheduler = TimerScheduler{}

func NewTimerScheduler() TimerScheduler { return TimerScheduler{} }

// Schedule runs fn after d. The fired callback and Cancel race on one state
// cell, so at most one of them takes effect.
func (TimerScheduler) Schedule(d time.Duration, fn func()) core.TimerHandle {
	h := &timerHandle{}
	h.timer = time.AfterFunc(d, func() {
		if h.state.CompareAndSwap(timerArmed, timerFired) {
			fn()
		}
	})
	return h
}

type timerHandle struct {
	state atomic.Int32
	timer *time.Timer
}

// Cancel is a no-op once the callback has started.
func (h *timerHandle) Cancel() bool {
	if !h.state.CompareAndSwap(timerArmed, timerCancelled) {
		return false
	}
	h.timer.Stop()
	return true
}
