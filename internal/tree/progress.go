package tree

// ProgressFunc is the builder/consolidator's progress observer. It is
// called from worker goroutines as work items complete, so implementations
// must be safe for concurrent use. stepID names the phase ("build",
// "consolidate"); delta is the number of work items completed since the
// last call. A nil ProgressFunc is a valid no-op observer.
type ProgressFunc func(stepID string, delta int)

func (f ProgressFunc) report(stepID string, delta int) {
	if f != nil {
		f(stepID, delta)
	}
}
