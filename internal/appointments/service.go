package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

var apptTracer = otel.Tracer("clinic.internal.appointments")

// formDefaultDuration is the default slot length applied to bookings made
// through the human booking form. Chat-originated bookings deliberately keep
// a zero-duration window (start == end); see BookFromChat.
const formDefaultDuration = time.Hour

// Service creates appointment records for both booking paths.
type Service struct {
	repo   *Repository
	logger *logging.Logger
}

// NewService constructs an appointments service.
func NewService(repo *Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// BookViaForm creates a confirmed appointment from the human booking form,
// applying the one-hour default duration.
func (s *Service) BookViaForm(ctx context.Context, b FormBooking) (*Appointment, error) {
	ctx, span := apptTracer.Start(ctx, "appointments.book_form")
	defer span.End()

	if err := validateBooking(b.PatientName, b.PatientPhone, b.StartsAt); err != nil {
		return nil, err
	}

	appt, err := s.repo.Create(ctx, Appointment{
		PatientName:  strings.TrimSpace(b.PatientName),
		PatientPhone: strings.TrimSpace(b.PatientPhone),
		ServiceID:    b.ServiceID,
		StartTime:    b.StartsAt,
		EndTime:      b.StartsAt.Add(formDefaultDuration),
		Status:       StatusConfirmed,
		Notes:        b.Notes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("clinic.appointment_id", appt.ID.String()))
	s.logger.Info("appointment booked via form", "appointment_id", appt.ID, "starts_at", appt.StartTime)
	return appt, nil
}

// BookFromChat creates a confirmed appointment on behalf of the AI
// receptionist. The end time is set equal to the start time: the chat path
// has no reliable duration, so it records a zero-duration placeholder window.
func (s *Service) BookFromChat(ctx context.Context, b ChatBooking) (*Appointment, error) {
	ctx, span := apptTracer.Start(ctx, "appointments.book_chat")
	defer span.End()

	if err := validateBooking(b.PatientName, b.PatientPhone, b.StartsAt); err != nil {
		return nil, err
	}

	appt, err := s.repo.Create(ctx, Appointment{
		PatientName:  strings.TrimSpace(b.PatientName),
		PatientPhone: strings.TrimSpace(b.PatientPhone),
		ServiceID:    b.ServiceID,
		StartTime:    b.StartsAt,
		EndTime:      b.StartsAt,
		Status:       StatusConfirmed,
		Notes:        b.Notes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("clinic.appointment_id", appt.ID.String()))
	s.logger.Info("appointment booked via chat", "appointment_id", appt.ID, "starts_at", appt.StartTime)
	return appt, nil
}

// ListUpcoming returns upcoming appointments for the back-office.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]Appointment, error) {
	return s.repo.ListUpcoming(ctx, time.Now().UTC(), limit)
}

func validateBooking(name, phone string, startsAt time.Time) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("appointments: patient name required")
	}
	if strings.TrimSpace(phone) == "" {
		return errors.New("appointments: patient phone required")
	}
	if startsAt.IsZero() {
		return errors.New("appointments: start time required")
	}
	return nil
}
