package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLog is an in-memory DurableLog for unit tests, standing in for the
// Postgres-backed store.Store.
type fakeLog struct {
	mu   sync.Mutex
	rows []EventRow
}

func (f *fakeLog) AppendEvent(ctx context.Context, eventType, data string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(len(f.rows) + 1)
	f.rows = append(f.rows, EventRow{ID: id, Type: eventType, Data: data})
	return id, nil
}

func (f *fakeLog) EventsSince(ctx context.Context, sinceID int64, limit int) ([]EventRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []EventRow
	for _, r := range f.rows {
		if r.ID > sinceID {
			out = append(out, r)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func TestEmitWithoutSubscribersStillAppends(t *testing.T) {
	log := &fakeLog{}
	b := New(log)
	require.NoError(t, b.Emit(context.Background(), TypeExecution, map[string]int{"n": 1}, false))
	assert.Len(t, log.rows, 1)
}

func TestSubscribeReceivesLiveEventsInOrder(t *testing.T) {
	log := &fakeLog{}
	b := New(log)
	sub, err := b.Subscribe(context.Background(), "s1", 0)
	require.NoError(t, err)
	defer sub.Close()

	greeting := <-sub.Events()
	assert.Equal(t, TypeSystem, greeting.Type)

	require.NoError(t, b.Emit(context.Background(), TypeExecution, map[string]int{"n": 1}, false))
	require.NoError(t, b.Emit(context.Background(), TypePublish, map[string]int{"n": 2}, false))

	e1 := <-sub.Events()
	e2 := <-sub.Events()
	assert.Less(t, e1.ID, e2.ID)
	assert.Equal(t, TypeExecution, e1.Type)
	assert.Equal(t, TypePublish, e2.Type)
}

func TestSubscribeReplaysSinceLastEventID(t *testing.T) {
	log := &fakeLog{}
	b := New(log)
	for i := 0; i < 10; i++ {
		require.NoError(t, b.Emit(context.Background(), TypeExecution, map[string]int{"n": i}, false))
	}

	sub, err := b.Subscribe(context.Background(), "s1", 7)
	require.NoError(t, err)
	defer sub.Close()

	var gotIDs []int64
	for i := 0; i < 3; i++ {
		gotIDs = append(gotIDs, (<-sub.Events()).ID)
	}
	assert.Equal(t, []int64{8, 9, 10}, gotIDs)

	greeting := <-sub.Events()
	assert.Equal(t, TypeSystem, greeting.Type)
}

func TestSubscribeRejectsAtCapacity(t *testing.T) {
	log := &fakeLog{}
	b := New(log)
	for i := 0; i < MaxSSEClients; i++ {
		_, err := b.Subscribe(context.Background(), idFor(i), 0)
		require.NoError(t, err)
	}

	_, err := b.Subscribe(context.Background(), "overflow", 0)
	assert.ErrorIs(t, err, ErrCapacityFull)
}

func TestCloseFreesCapacitySlot(t *testing.T) {
	log := &fakeLog{}
	b := New(log)
	sub, err := b.Subscribe(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, b.SubscriberCount())
	sub.Close()
	assert.Equal(t, 0, b.SubscriberCount())
}

func idFor(i int) string {
	return "sub-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}
