package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// Logger records attendance events
type Logger interface {
	Log(ctx context.Context, event domain.Event) error
}

// SlogLogger implements Logger using slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a new audit logger using slog
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{
		logger: logger.With("component", "audit"),
	}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event domain.Event) error {
	event = complete(event)

	l.logger.InfoContext(ctx, "audit_event",
		slog.String("event_id", event.ID.String()),
		slog.String("name", event.Name),
		slog.String("action", string(event.Action)),
		slog.String("timestamp", event.FormattedTime()),
	)

	return nil
}

// NoOpLogger is a logger that does nothing (for testing or when audit is disabled)
type NoOpLogger struct{}

// Log does nothing and returns nil
func (l *NoOpLogger) Log(_ context.Context, _ domain.Event) error {
	return nil
}

// Journal writes every event to one authoritative sink and, only when that
// write succeeded, to the mirror sinks. A failed authoritative write is
// returned and nothing else sees the event; mirror failures are logged and
// never returned, so a retried request cannot produce duplicate records.
type Journal struct {
	primary Logger
	mirrors []Logger
	logger  *slog.Logger
}

func NewJournal(primary Logger, logger *slog.Logger, mirrors ...Logger) *Journal {
	return &Journal{
		primary: primary,
		mirrors: mirrors,
		logger:  logger.With("component", "audit"),
	}
}

func (j *Journal) Log(ctx context.Context, event domain.Event) error {
	event = complete(event)

	if err := j.primary.Log(ctx, event); err != nil {
		return err
	}

	for _, mirror := range j.mirrors {
		if err := mirror.Log(ctx, event); err != nil {
			j.logger.WarnContext(ctx, "event mirror failed",
				slog.String("event_id", event.ID.String()),
				slog.String("name", event.Name),
				slog.String("action", string(event.Action)),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

func complete(event domain.Event) domain.Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}
