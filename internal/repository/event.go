package repository

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// EventRepository appends attendance events to the clock_events table.
type EventRepository struct {
	pool PgxPool
}

func NewEventRepository(pool PgxPool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Append(ctx context.Context, event domain.Event) error {
	query := `
		INSERT INTO clock_events (id, name, action, occurred_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.pool.Exec(ctx, query, event.ID, event.Name, string(event.Action), event.Timestamp); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// History returns the latest limit events recorded for name, newest first.
func (r *EventRepository) History(ctx context.Context, name string, limit int) ([]domain.Event, error) {
	query := `
		SELECT id, name, action, occurred_at
		FROM clock_events
		WHERE name = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			event  domain.Event
			action string
		)
		if err := rows.Scan(&event.ID, &event.Name, &action, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Action = domain.EventAction(action)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
