package appointments

import (
	"time"

	"github.com/google/uuid"
)

// StatusConfirmed is the only status either booking path writes today.
// There is no pending/confirmation step; cancellations happen in the
// back-office, not here.
const StatusConfirmed = "confirmed"

// Appointment is a stored appointment record.
type Appointment struct {
	ID           uuid.UUID  `json:"id"`
	PatientName  string     `json:"patientName"`
	PatientPhone string     `json:"patientPhone"`
	ServiceID    *uuid.UUID `json:"serviceId,omitempty"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      time.Time  `json:"endTime"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// FormBooking is a booking submitted through the human booking form.
type FormBooking struct {
	PatientName  string     `json:"patientName"`
	PatientPhone string     `json:"patientPhone"`
	ServiceID    *uuid.UUID `json:"serviceId,omitempty"`
	StartsAt     time.Time  `json:"startsAt"`
	Notes        string     `json:"notes,omitempty"`
}

// ChatBooking is a booking produced by the AI receptionist. StartsAt is
// already normalized by the conversation layer; Notes carries provenance
// (which model produced the booking).
type ChatBooking struct {
	PatientName  string
	PatientPhone string
	ServiceID    *uuid.UUID
	StartsAt     time.Time
	Notes        string
}
