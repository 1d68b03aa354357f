// Package buildlog adapts the standard library's log.Logger to the
// tree package's ProgressFunc shape, so build/consolidate progress can
// be redirected like any other log output without pulling in a
// structured logging dependency the rest of the module doesn't need.
package buildlog

import (
	"log"
	"sync"
)

// Logger accumulates progress deltas per step and periodically reports
// totals through an underlying *log.Logger.
type Logger struct {
	out   *log.Logger
	every int64

	mu     sync.Mutex
	counts map[string]int64
}

// New returns a Logger writing to out, printing a line every `every`
// work items completed for a given step (0 selects 1000).
func New(out *log.Logger, every int64) *Logger {
	if every <= 0 {
		every = 1000
	}
	return &Logger{out: out, every: every, counts: make(map[string]int64)}
}

// Progress returns the ProgressFunc to hand to tree.BuilderOptions or
// tree.ConsolidatorOptions.
func (l *Logger) Progress(stepID string, delta int) {
	l.mu.Lock()
	l.counts[stepID] += int64(delta)
	total := l.counts[stepID]
	l.mu.Unlock()

	if total%l.every < int64(delta) {
		l.out.Printf("%s: %d processed", stepID, total)
	}
}
