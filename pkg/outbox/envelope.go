package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SourceRef identifies where the event originated.
type SourceRef struct {
	BarID   uuid.UUID `json:"barId"`
	Channel string    `json:"channel,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Source     *SourceRef      `json:"source,omitempty"`
	Data       json.RawMessage `json:"data"`
}
