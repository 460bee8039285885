package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evergreenclinic/clinic-platform/internal/appointments"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// AppointmentBooker is the write collaborator for chat-originated bookings.
// appointments.Service satisfies it.
type AppointmentBooker interface {
	BookFromChat(ctx context.Context, b appointments.ChatBooking) (*appointments.Appointment, error)
}

// BookingRequest is a resolved, normalized action payload ready to be
// written. Time must already be in strict HH:MM form.
type BookingRequest struct {
	PatientName string
	Phone       string
	ServiceID   *uuid.UUID
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, 24-hour
	Provenance  string // provider that produced the action
}

// BookingExecutor performs the single appointment write for a booking
// intent. Failures are reported, never retried: the human retries via a new
// conversation turn.
type BookingExecutor struct {
	booker AppointmentBooker
	loc    *time.Location
	logger *logging.Logger
}

// NewBookingExecutor creates an executor writing through the given booker.
// Appointment times are interpreted in loc (the clinic's timezone).
func NewBookingExecutor(booker AppointmentBooker, loc *time.Location, logger *logging.Logger) *BookingExecutor {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingExecutor{booker: booker, loc: loc, logger: logger}
}

// Execute creates exactly one confirmed appointment record, or returns the
// storage error. The date+time pair is parsed strictly; a malformed time
// never reaches the write.
func (e *BookingExecutor) Execute(ctx context.Context, req BookingRequest) (*appointments.Appointment, error) {
	startsAt, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, e.loc)
	if err != nil {
		return nil, fmt.Errorf("conversation: invalid appointment time %q %q: %w", req.Date, req.Time, err)
	}

	appt, err := e.booker.BookFromChat(ctx, appointments.ChatBooking{
		PatientName:  req.PatientName,
		PatientPhone: req.Phone,
		ServiceID:    req.ServiceID,
		StartsAt:     startsAt,
		Notes:        fmt.Sprintf("booked by AI receptionist (%s)", req.Provenance),
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("chat booking created",
		"appointment_id", appt.ID,
		"starts_at", appt.StartTime,
		"provenance", req.Provenance,
	)
	return appt, nil
}
