package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// AppendEvent durably inserts an event row and returns the assigned id,
// which becomes the event's monotone sequence number for replay.
func (s *Store) AppendEvent(ctx context.Context, eventType, data string) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO events (type, data, created_at) VALUES ($1, $2, now()) RETURNING id`,
		eventType, data).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: append event: %w", err)
	}
	return id, nil
}

// EventsSince returns events with id > sinceID, in ascending id order,
// capped at limit rows — the replay source for Last-Event-ID reconnects.
func (s *Store) EventsSince(ctx context.Context, sinceID int64, limit int) ([]Event, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, type, data, created_at FROM events
		WHERE id > $1 ORDER BY id ASC LIMIT $2`, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query events since: %w", err)
	}
	defer rows.Close()

	events, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Event])
	if err != nil {
		return nil, fmt.Errorf("store: scan events: %w", err)
	}
	return events, nil
}

// MaxEventID returns the current maximum event id, or 0 if the log is empty.
func (s *Store) MaxEventID(ctx context.Context) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM events`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: query max event id: %w", err)
	}
	return id, nil
}
