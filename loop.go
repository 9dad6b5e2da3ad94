package surface

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Clock supplies the current time to a Loop.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when Advance is called. Use it to
// drive settle delays deterministically.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// task is a unit of work posted to the loop.
type task struct {
	at  time.Time
	seq uint64
	fn  func()
}

// timerQueue orders timers by deadline, then by scheduling order.
type timerQueue []task

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if !q[i].at.Equal(q[j].at) {
		return q[i].at.Before(q[j].at)
	}
	return q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x any)   { *q = append(*q, x.(task)) }
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = task{}
	*q = old[:n-1]
	return t
}

// Loop is a single-threaded cooperative task queue with timers. Tasks run
// only inside RunPending, on the caller's goroutine, one at a time. Post is
// the only method safe to call from other goroutines.
//
// A timer due at t runs after every task posted before t and before every
// task posted at or after t, regardless of when RunPending is called.
type Loop struct {
	clock Clock

	mu     sync.Mutex
	queue  []task
	timers timerQueue
	seq    uint64
	wake   chan struct{}
}

// NewLoop creates a loop reading time from clock (nil means the system clock).
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = systemClock{}
	}
	return &Loop{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Post queues fn to run on the loop. Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.seq++
	l.queue = append(l.queue, task{at: l.clock.Now(), seq: l.seq, fn: fn})
	l.mu.Unlock()
	l.signal()
}

// AfterFunc schedules fn to run on the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	l.mu.Lock()
	l.seq++
	heap.Push(&l.timers, task{at: l.clock.Now().Add(d), seq: l.seq, fn: fn})
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending reports the number of queued tasks and scheduled timers.
func (l *Loop) Pending() (tasks, timers int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue), len(l.timers)
}

// next pops the next runnable task, if any.
func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	timerReady := len(l.timers) > 0 && !l.timers[0].at.After(now)

	if len(l.queue) > 0 {
		head := l.queue[0]
		if !timerReady || head.at.Before(l.timers[0].at) {
			l.queue[0] = task{}
			l.queue = l.queue[1:]
			return head.fn, true
		}
	}
	if timerReady {
		t := heap.Pop(&l.timers).(task)
		return t.fn, true
	}
	return nil, false
}

// RunPending runs every task that is ready now, including tasks posted by
// the tasks it runs, and returns how many ran.
func (l *Loop) RunPending() int {
	n := 0
	for {
		fn, ok := l.next()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// nextDeadline returns the earliest timer deadline.
func (l *Loop) nextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].at, true
}

// Run drives the loop until ctx is done. Wake-ups come from Post, AfterFunc
// and the earliest timer deadline measured against the system clock.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		var timerC <-chan time.Time
		var t *time.Timer
		if due, ok := l.nextDeadline(); ok {
			t = time.NewTimer(max(due.Sub(l.clock.Now()), 0))
			timerC = t.C
		}

		select {
		case <-ctx.Done():
			if t != nil {
				t.Stop()
			}
			return ctx.Err()
		case <-l.wake:
		case <-timerC:
		}
		if t != nil {
			t.Stop()
		}
	}
}
