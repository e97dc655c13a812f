package semaphore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireReleaseWithinCapacity(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Acquire(context.Background()))
	require.NoError(t, s.Acquire(context.Background()))
	assert.Equal(t, 2, s.Active())
	s.Release()
	assert.Equal(t, 1, s.Active())
}

func TestReleaseAtFloorIsNoOp(t *testing.T) {
	s := New(1)
	s.Release()
	assert.Equal(t, 0, s.Active())
}

func TestAcquireTimeoutReturnsErrTimeout(t *testing.T) {
	s := New(1)
	require.NoError(t, s.Acquire(context.Background()))

	err := s.AcquireTimeout(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, s.Active(), "a timed-out waiter must not hold the slot")
}

func TestFIFOOrdering(t *testing.T) {
	s := New(1)
	require.NoError(t, s.Acquire(context.Background()))

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			// Stagger enqueue order deterministically.
			time.Sleep(time.Duration(id) * 10 * time.Millisecond)
			require.NoError(t, s.Acquire(context.Background()))
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			s.Release()
		}(i)
	}

	time.Sleep(35 * time.Millisecond) // let all three enqueue
	s.Release()                       // free the initial holder's slot

	wg.Wait()
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestActiveNeverNegative(t *testing.T) {
	s := New(3)
	for i := 0; i < 5; i++ {
		s.Release()
	}
	assert.Equal(t, 0, s.Active())
}

func TestActivePlusWaitersCanExceedMax(t *testing.T) {
	s := New(1)
	require.NoError(t, s.Acquire(context.Background()))

	done := make(chan struct{})
	go func() {
		_ = s.AcquireTimeout(200 * time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, s.Active())
	assert.Equal(t, 1, s.Waiting())
	<-done
}
