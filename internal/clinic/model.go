package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Service is one entry in the clinic's curated treatment catalog.
type Service struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int       `json:"priceCents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Ref is a read-only projection of a catalog entry, enough for the chat
// agent to attach a booking to a service.
type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
