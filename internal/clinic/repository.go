package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides read access to the service catalog.
type Repository struct {
	db DB
}

// NewRepository creates a catalog repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("clinic: db required")
	}
	return &Repository{db: db}
}

// ListActive returns every active catalog entry, ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]Service, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at
		FROM services
		WHERE active = TRUE
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("clinic: list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("clinic: scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinic: list services: %w", err)
	}
	return services, nil
}

// GetService returns a single catalog entry by id, or (nil, nil).
func (r *Repository) GetService(ctx context.Context, id string) (*Service, error) {
	var s Service
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at
		FROM services
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.Active, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinic: get service: %w", err)
	}
	return &s, nil
}
