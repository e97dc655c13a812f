package events

import (
	"context"

	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
)

// StoreLog adapts *store.Store to the DurableLog interface Bus depends on.
type StoreLog struct {
	Store *store.Store
}

// AppendEvent delegates to the underlying store.
func (l *StoreLog) AppendEvent(ctx context.Context, eventType, data string) (int64, error) {
	return l.Store.AppendEvent(ctx, eventType, data)
}

// EventsSince delegates to the underlying store, translating row types.
func (l *StoreLog) EventsSince(ctx context.Context, sinceID int64, limit int) ([]EventRow, error) {
	rows, err := l.Store.EventsSince(ctx, sinceID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]EventRow, len(rows))
	for i, r := range rows {
		out[i] = EventRow{ID: r.ID, Type: r.Type, Data: r.Data}
	}
	return out, nil
}
