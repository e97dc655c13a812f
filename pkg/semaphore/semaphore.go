// Package semaphore implements a reusable counting semaphore with an
// optional per-acquire timeout and a strictly FIFO wait queue, used to
// bound the number of in-flight generation pipelines and simulation
// sandbox invocations.
package semaphore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned by Acquire when the configured wait budget elapses
// before a slot becomes available.
var ErrTimeout = errors.New("semaphore: acquire timed out")

// waiter is a single FIFO queue entry; granted is closed exactly once, by
// whichever goroutine hands the waiter its slot.
type waiter struct {
	granted chan struct{}
}

// Semaphore bounds concurrent access to a resource to max permits. All
// waits are cooperative (channel receive), never spinning. The active
// count never goes negative; Release at zero is a no-op.
type Semaphore struct {
	mu      sync.Mutex
	max     int
	active  int
	waiters []*waiter
}

// New creates a Semaphore that admits at most max concurrent holders.
func New(max int) *Semaphore {
	if max < 1 {
		max = 1
	}
	return &Semaphore{max: max}
}

// Acquire blocks until a slot is available or ctx is done, whichever comes
// first. A zero timeout on ctx means "wait forever"; callers that want a
// bounded wait should derive ctx with context.WithTimeout.
func (s *Semaphore) Acquire(ctx context.Context) error {
	s.mu.Lock()
	if s.active < s.max && len(s.waiters) == 0 {
		s.active++
		s.mu.Unlock()
		return nil
	}

	w := &waiter{granted: make(chan struct{})}
	s.waiters = append(s.waiters, w)
	s.mu.Unlock()

	select {
	case <-w.granted:
		return nil
	case <-ctx.Done():
		s.removeWaiter(w)
		// Release may have granted this waiter (closed w.granted and popped
		// it from the queue) in the same instant ctx fired, and select chose
		// the ctx.Done() case anyway. removeWaiter is then a no-op since the
		// waiter is already gone from the queue, but the slot it was handed
		// would otherwise leak forever. Detect that case with a non-blocking
		// receive (a closed channel never blocks) and surrender the slot to
		// the next waiter before reporting the timeout.
		select {
		case <-w.granted:
			s.Release()
		default:
		}
		return s.timeoutOrContextErr(ctx)
	}
}

// AcquireTimeout is a convenience wrapper around Acquire using a plain
// time.Duration budget instead of a caller-supplied context.
func (s *Semaphore) AcquireTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Acquire(ctx)
}

func (s *Semaphore) timeoutOrContextErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ctx.Err()
}

// removeWaiter deletes w from the queue if it is still waiting (it may
// have already been granted and removed by Release in the meantime, in
// which case this is a no-op and the grant is simply discarded by the
// caller never reading from the channel again).
func (s *Semaphore) removeWaiter(w *waiter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.waiters {
		if other == w {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}

// Release returns a slot to the pool, waking the oldest waiter if any. A
// Release with no corresponding Acquire (active already at floor) is a
// safe no-op rather than going negative.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waiters) > 0 {
		next := s.waiters[0]
		s.waiters = s.waiters[1:]
		close(next.granted)
		return
	}

	if s.active > 0 {
		s.active--
	}
}

// Active reports the current number of held slots, for health/metrics
// reporting.
func (s *Semaphore) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Waiting reports the current FIFO queue depth.
func (s *Semaphore) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiters)
}
