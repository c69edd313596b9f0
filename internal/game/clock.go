package game

import "time"

// timerHandle lets the engine stop a scheduled callback early.
type timerHandle interface {
	Stop() bool
}

// clockFunc schedules fn to run once after d. Every scheduled callback
// captures the generation of the turn or match that owns it and
// re-validates that generation under the engine lock before acting, so a
// fire that loses the race with Stop is a no-op rather than a stale
// mutation.
type clockFunc func(d time.Duration, fn func()) timerHandle

func realClock(d time.Duration, fn func()) timerHandle {
	return time.AfterFunc(d, fn)
}
