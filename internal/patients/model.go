package patients

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a stored patient record used by the self-service dashboard.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
