package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence helpers for appointments.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("appointments: db required")
	}
	return &Repository{db: db}
}

// Create inserts a confirmed appointment row and returns it.
func (r *Repository) Create(ctx context.Context, appt Appointment) (*Appointment, error) {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_name, patient_phone, service_id,
			start_time, end_time, status, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, appt.ID, appt.PatientName, appt.PatientPhone, appt.ServiceID,
		appt.StartTime, appt.EndTime, appt.Status, appt.Notes, appt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return &appt, nil
}

// ListUpcoming returns confirmed appointments starting at or after the given
// time, oldest first.
func (r *Repository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, patient_name, patient_phone, service_id,
		       start_time, end_time, status, notes, created_at
		FROM appointments
		WHERE start_time >= $1
		ORDER BY start_time ASC
		LIMIT $2
	`, from, limit)
	if err != nil {
		return nil, fmt.Errorf("appointments: list upcoming: %w", err)
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientName, &a.PatientPhone, &a.ServiceID,
			&a.StartTime, &a.EndTime, &a.Status, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list upcoming: %w", err)
	}
	return appts, nil
}
