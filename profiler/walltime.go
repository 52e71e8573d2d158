package profiler

import (
	"log"
	"time"
)

// WallTime measures host-side durations of named simulation phases.
type WallTime struct {
	startTimes map[string]time.Time
}

// NewWallTime creates an empty phase timer.
func NewWallTime() *WallTime {
	return &WallTime{
		startTimes: make(map[string]time.Time),
	}
}

// Start marks the beginning of a phase. A phase can only run once at a time.
func (w *WallTime) Start(phase string) {
	if _, found := w.startTimes[phase]; found {
		log.Panicf("phase %s is already running", phase)
	}
	w.startTimes[phase] = time.Now()
}

// Stop ends a phase and returns its duration in seconds.
func (w *WallTime) Stop(phase string) float64 {
	start, found := w.startTimes[phase]
	if !found {
		log.Panicf("phase %s was never started", phase)
	}
	delete(w.startTimes, phase)
	return time.Since(start).Seconds()
}
