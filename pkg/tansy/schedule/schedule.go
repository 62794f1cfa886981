// Package schedule drives repeating timer tasks cooperatively. Tasks
// run on whichever goroutine calls Tick, never on their own, so a
// driving loop keeps full control of interleaving. Cancellation is an
// explicit per-task token checked every tick.
package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TickFunc is the function a task runs each time it comes due.
type TickFunc func()

// PanicHandler handles panics raised during a tick.
// Returns true to keep the task scheduled, false to cancel it.
type PanicHandler func(task *Task, err any) bool

// Task is one repeating timer entry.
type Task struct {
	id        uint32
	interval  time.Duration
	fn        TickFunc
	next      time.Time
	cancelled atomic.Bool
}

// Cancel marks the task as cancelled. It never runs again and is
// pruned on the next Tick.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether the task has been cancelled.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// ID returns the task's unique ID.
func (t *Task) ID() uint32 {
	return t.id
}

// Interval returns the task's repeat interval.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Scheduler manages repeating tasks. It is safe to register and cancel
// tasks from tick callbacks; Tick itself must only be called from one
// goroutine at a time.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[uint32]*Task
	order  []uint32
	nextID uint32

	now     func() time.Time
	onPanic PanicHandler
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		tasks:  make(map[uint32]*Task),
		nextID: 1,
		now:    time.Now,
	}
}

// SetClock replaces the scheduler's time source. Tests use this to
// step time by hand.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// SetPanicHandler installs the handler consulted when a tick panics.
// Without a handler a panicking task is cancelled.
func (s *Scheduler) SetPanicHandler(h PanicHandler) {
	s.onPanic = h
}

// Repeat registers fn to run every interval. The first run comes due
// immediately on the next Tick.
func (s *Scheduler) Repeat(interval time.Duration, fn TickFunc) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	task := &Task{
		id:       id,
		interval: interval,
		fn:       fn,
		next:     s.now(),
	}
	s.tasks[id] = task
	s.order = append(s.order, id)
	return task
}

// Remove cancels a task and drops it immediately.
func (s *Scheduler) Remove(task *Task) {
	if task == nil {
		return
	}
	task.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, task.id)
	s.compactOrder()
}

// Tick runs every due task in registration order on the caller's
// goroutine and returns how many ran. Cancelled tasks are pruned.
func (s *Scheduler) Tick() int {
	now := s.now()

	s.mu.Lock()
	var due []*Task
	pruned := false
	for _, id := range s.order {
		task, ok := s.tasks[id]
		if !ok {
			pruned = true
			continue
		}
		if task.Cancelled() {
			delete(s.tasks, id)
			pruned = true
			continue
		}
		if !task.next.After(now) {
			due = append(due, task)
		}
	}
	if pruned {
		s.compactOrder()
	}
	s.mu.Unlock()

	// Callbacks run without the lock held so they may register or
	// cancel tasks themselves.
	type finished struct {
		task *Task
		at   time.Time
	}
	ran := 0
	var done []finished
	for _, task := range due {
		if task.Cancelled() {
			continue
		}
		s.runTask(task)
		done = append(done, finished{task, s.now()})
		ran++
	}

	s.mu.Lock()
	for _, f := range done {
		f.task.next = f.at.Add(f.task.interval)
	}
	s.mu.Unlock()
	return ran
}

// Live returns the number of tasks that are still scheduled.
func (s *Scheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.tasks {
		if !task.Cancelled() {
			n++
		}
	}
	return n
}

// NextDue returns how long until the soonest live task comes due.
// The second return is false when nothing is scheduled.
func (s *Scheduler) NextDue() (time.Duration, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var soonest time.Time
	found := false
	for _, task := range s.tasks {
		if task.Cancelled() {
			continue
		}
		if !found || task.next.Before(soonest) {
			soonest = task.next
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return soonest.Sub(now), true
}

// Run ticks until the context is cancelled or no live tasks remain.
// This is the terminal-mode driving loop; a GUI host calls Tick from
// its own event loop instead.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		wait, ok := s.NextDue()
		if !ok {
			return
		}
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		s.Tick()
	}
}

// CancelAll cancels every task. The entries are pruned on the next
// Tick.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range s.tasks {
		task.cancelled.Store(true)
	}
}

func (s *Scheduler) runTask(task *Task) {
	defer func() {
		if r := recover(); r != nil {
			keep := false
			if s.onPanic != nil {
				keep = s.onPanic(task, r)
			}
			if !keep {
				task.Cancel()
			}
		}
	}()
	task.fn()
}

// compactOrder rebuilds the order slice to only reference live map
// entries. Caller holds the lock.
func (s *Scheduler) compactOrder() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.tasks[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}
