package webhook

import (
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

const (
	HeaderSignature = "X-PontoFace-Signature"
	HeaderTimestamp = "X-PontoFace-Timestamp"
	HeaderEvent     = "X-PontoFace-Event"
	HeaderDelivery  = "X-PontoFace-Delivery"
)

// Payload is the JSON body POSTed for every attendance event.
type Payload struct {
	ID        uuid.UUID          `json:"id"`
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	Action    domain.EventAction `json:"action"`
	Time      string             `json:"time"`
	Timestamp time.Time          `json:"timestamp"`
}

func newPayload(event domain.Event) Payload {
	return Payload{
		ID:        event.ID,
		Type:      "attendance." + string(event.Action),
		Name:      event.Name,
		Action:    event.Action,
		Time:      event.FormattedTime(),
		Timestamp: event.Timestamp,
	}
}

type job struct {
	payload  Payload
	body     []byte
	attempts int
}
