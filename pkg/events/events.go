// Package events implements the durable-log + live-fan-out event bus: a
// synchronous append to the durable row store followed by an in-memory
// broadcast to SSE subscribers, with Last-Event-ID replay on reconnect.
// Subscribers are held in a mutex-guarded map and delivery is a
// snapshot-then-send broadcast, collapsed to a single global stream and
// single-process delivery since no second process needs reaching here.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Closed set of event types the bus will emit.
const (
	TypeExecution         = "execution"
	TypePublish           = "publish"
	TypeDeploy            = "deploy"
	TypeDiscovery         = "discovery"
	TypePipelineStarted   = "pipeline_started"
	TypeStepStarted       = "pipeline_step_started"
	TypeStepCompleted     = "pipeline_step_completed"
	TypeStepFailed        = "pipeline_step_failed"
	TypePipelineCompleted = "pipeline_completed"
	TypePipelineFailed    = "pipeline_failed"
	TypeSystem            = "system"
)

// MaxSSEClients bounds live subscriber count; a connect attempt past this
// cap fails with ErrCapacityFull.
const MaxSSEClients = 50

// ReplayCap bounds how many missed events are replayed on reconnect.
const ReplayCap = 100

// ErrCapacityFull is returned by Subscribe once MaxSSEClients is reached.
var ErrCapacityFull = errors.New("events: SSE_CAPACITY_FULL")

// Delivered is one event as handed to a subscriber: either a durable row
// (Type/Data/ID all meaningful) or the synthetic "system" greeting.
type Delivered struct {
	ID   int64
	Type string
	Data json.RawMessage
}

// DurableLog is the storage collaborator's durable append-only log,
// satisfied by *store.Store.
type DurableLog interface {
	AppendEvent(ctx context.Context, eventType, data string) (int64, error)
	EventsSince(ctx context.Context, sinceID int64, limit int) ([]EventRow, error)
}

// EventRow mirrors store.Event's shape without importing the store
// package, keeping the bus's dependency surface narrow.
type EventRow struct {
	ID   int64
	Type string
	Data string
}

type subscriber struct {
	ch     chan Delivered
	closed chan struct{}
}

// Bus is the process-wide event bus singleton. Construct one per process
// and share it between the HTTP layer, the pipeline executor, and
// whatever else emits domain events.
type Bus struct {
	log DurableLog

	mu          sync.RWMutex
	subscribers map[string]*subscriber
}

// New wires a Bus to its durable log collaborator.
func New(log DurableLog) *Bus {
	return &Bus{log: log, subscribers: make(map[string]*subscriber)}
}

// Emit durably appends (type, data) and, unless silent, broadcasts to all
// live subscribers. Emission is durable-first: if the append fails, no
// broadcast occurs and the error is returned. A slow or stuck subscriber
// must never block emission returning; sends are non-blocking drops with
// a logged warning (the subscriber's own read loop should keep pace, and
// reconnect-with-replay recovers any drop).
func (b *Bus) Emit(ctx context.Context, eventType string, data any, silent bool) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("events: marshal payload: %w", err)
	}

	id, err := b.log.AppendEvent(ctx, eventType, string(payload))
	if err != nil {
		return fmt.Errorf("events: append: %w", err)
	}

	if silent {
		return nil
	}

	b.broadcast(Delivered{ID: id, Type: eventType, Data: payload})
	return nil
}

func (b *Bus) broadcast(d Delivered) {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.ch <- d:
		default:
			slog.Warn("events: dropping delivery to slow subscriber")
		}
	}
}

// Subscription is a live handle returned by Subscribe. Events() yields
// replayed events (if any) followed by the live stream, in order. The
// caller must call Close when the connection ends so the slot is freed.
type Subscription struct {
	bus *Bus
	id  string
	sub *subscriber
}

// Events returns the channel subscribers should range over.
func (s *Subscription) Events() <-chan Delivered {
	return s.sub.ch
}

// Close deregisters the subscription, freeing its capacity slot.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	delete(s.bus.subscribers, s.id)
	s.bus.mu.Unlock()
	close(s.sub.closed)
}

// Subscribe admits a new live subscriber, replaying events after
// lastEventID (if > 0) up to ReplayCap, in id order, followed by a
// "system" greeting placed on the same channel before live delivery
// begins — both ahead of any concurrently-broadcast live event, since
// replay and the greeting are queued onto the subscriber's own channel
// before it is registered in the fan-out map, so broadcast can't race
// ahead of them.
func (b *Bus) Subscribe(ctx context.Context, sessionID string, lastEventID int64) (*Subscription, error) {
	b.mu.RLock()
	full := len(b.subscribers) >= MaxSSEClients
	b.mu.RUnlock()
	if full {
		return nil, ErrCapacityFull
	}

	// Buffered enough to hold a full replay burst plus headroom for live
	// events queued before the reader goroutine drains them.
	sub := &subscriber{ch: make(chan Delivered, ReplayCap+16), closed: make(chan struct{})}

	if lastEventID > 0 {
		rows, err := b.log.EventsSince(ctx, lastEventID, ReplayCap)
		if err != nil {
			return nil, fmt.Errorf("events: replay query: %w", err)
		}
		for _, row := range rows {
			sub.ch <- Delivered{ID: row.ID, Type: row.Type, Data: json.RawMessage(row.Data)}
		}
	}

	sub.ch <- Delivered{Type: TypeSystem, Data: json.RawMessage(`{"message":"connected"}`)}

	b.mu.Lock()
	if len(b.subscribers) >= MaxSSEClients {
		b.mu.Unlock()
		return nil, ErrCapacityFull
	}
	b.subscribers[sessionID] = sub
	b.mu.Unlock()

	return &Subscription{bus: b, id: sessionID, sub: sub}, nil
}

// SubscriberCount reports the current live subscriber count, for GET /health.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
