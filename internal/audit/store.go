package audit

import (
	"context"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// EventStore persists events, e.g. repository.EventRepository.
type EventStore interface {
	Append(ctx context.Context, event domain.Event) error
}

// StoreLogger writes events to an EventStore.
type StoreLogger struct {
	store EventStore
}

func NewStoreLogger(store EventStore) *StoreLogger {
	return &StoreLogger{store: store}
}

func (l *StoreLogger) Log(ctx context.Context, event domain.Event) error {
	return l.store.Append(ctx, complete(event))
}
