package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventAction is the kind of entry written to the attendance log
type EventAction string

const (
	ActionClockIn  EventAction = "in"
	ActionClockOut EventAction = "out"
	ActionCreated  EventAction = "created"
	ActionUpdated  EventAction = "updated"
	ActionDeleted  EventAction = "deleted"
)

// EventTimeLayout is the local-time format used in the log and in greetings.
const EventTimeLayout = "2006-01-02 15:04:05"

// Event is one append-only attendance log entry.
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Action    EventAction `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps a new event for name at t.
func NewEvent(name string, action EventAction, t time.Time) Event {
	return Event{
		ID:        uuid.New(),
		Name:      name,
		Action:    action,
		Timestamp: t,
	}
}

func (e Event) FormattedTime() string {
	return e.Timestamp.Format(EventTimeLayout)
}
