package ws

import (
	"time"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

type EventType string

const (
	EventClockIn        EventType = "clock.in"
	EventClockOut       EventType = "clock.out"
	EventProfileCreated EventType = "profile.created"
	EventProfileUpdated EventType = "profile.updated"
	EventProfileDeleted EventType = "profile.deleted"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventData is the payload pushed for an attendance event.
type EventData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

func eventTypeFor(action domain.EventAction) EventType {
	switch action {
	case domain.ActionClockIn:
		return EventClockIn
	case domain.ActionClockOut:
		return EventClockOut
	case domain.ActionCreated:
		return EventProfileCreated
	case domain.ActionUpdated:
		return EventProfileUpdated
	case domain.ActionDeleted:
		return EventProfileDeleted
	default:
		return EventType(action)
	}
}
