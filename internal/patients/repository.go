package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// Repository provides persistence helpers for patient records.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("patients: db required")
	}
	return &Repository{db: db}
}

// Register inserts a patient record.
func (r *Repository) Register(ctx context.Context, p Patient) (*Patient, error) {
	if strings.TrimSpace(p.FullName) == "" {
		return nil, errors.New("patients: full name required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return nil, errors.New("patients: phone required")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO patients (id, full_name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.FullName, p.Phone, p.Email, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("patients: insert: %w", err)
	}
	return &p, nil
}

// FindByPhone returns the patient with the given phone, or (nil, nil).
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*Patient, error) {
	var p Patient
	err := r.db.QueryRow(ctx, `
		SELECT id, full_name, phone, email, created_at
		FROM patients
		WHERE phone = $1
	`, phone).Scan(&p.ID, &p.FullName, &p.Phone, &p.Email, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patients: find by phone: %w", err)
	}
	return &p, nil
}
