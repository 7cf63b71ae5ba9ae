package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLStore writes events to the events table
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Save(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode event metadata: %w", err)
	}

	statement := `INSERT INTO events (id, event_type, event_data, event_metadata, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, statement, e.ID, e.Type, data, metadata, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

// ListByType returns the newest events of a type first. Data comes back as
// raw JSON.
func (s *SQLStore) ListByType(ctx context.Context, eventType string, limit int) ([]Event, error) {
	query := `
		SELECT id, event_type, event_data, event_metadata, created_at
		FROM events
		WHERE event_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var event Event
		var data, metadata []byte
		if err := rows.Scan(&event.ID, &event.Type, &data, &metadata, &event.CreatedAt); err != nil {
			return events, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Data = json.RawMessage(data)
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return events, fmt.Errorf("failed to decode event metadata: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
