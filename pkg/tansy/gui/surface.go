package gui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
	"github.com/sambeau/tansy/pkg/tansy/schedule"
)

// Surface is the root of the element tree. It owns the scheduler that
// drives forever loops in windowed runs, and it stays alive until Close.
// The window store creates one when the first window is declared.
type Surface struct {
	sched  *schedule.Scheduler
	closed atomic.Bool
}

// NewSurface creates a live surface with an idle scheduler.
func NewSurface() *Surface {
	return &Surface{sched: schedule.New()}
}

// Alive reports whether the surface has not been closed.
func (s *Surface) Alive() bool {
	return !s.closed.Load()
}

// Repeat schedules fn to run every interval. The first run is due on the
// next tick. A closed surface returns an already-cancelled task so
// callers need no special case.
func (s *Surface) Repeat(interval time.Duration, fn func()) runtime.Task {
	task := s.sched.Repeat(interval, fn)
	if s.closed.Load() {
		task.Cancel()
	}
	return task
}

// Run drives the scheduler until the context is cancelled, the surface
// closes, or no live tasks remain. It is the windowed-mode counterpart
// of a toolkit main loop.
func (s *Surface) Run(ctx context.Context) {
	if s.closed.Load() {
		return
	}
	s.sched.Run(ctx)
}

// Tick runs due tasks once and returns how many ran. The REPL and tests
// drive the surface with this instead of Run.
func (s *Surface) Tick() int {
	if s.closed.Load() {
		return 0
	}
	return s.sched.Tick()
}

// Scheduler exposes the underlying scheduler, mainly so tests can
// install a fake clock.
func (s *Surface) Scheduler() *schedule.Scheduler {
	return s.sched
}

// Close marks the surface dead and cancels every scheduled task.
// Closing twice is harmless.
func (s *Surface) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.sched.CancelAll()
}
