package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

func TestListActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, description, duration_minutes, price_cents, active, created_at`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "description", "duration_minutes", "price_cents", "active", "created_at",
		}).
			AddRow(uuid.New(), "Hydrotherapy", "Warm water therapy", 60, 9500, true, now).
			AddRow(uuid.New(), "Therapeutic Yoga", "", 45, 6000, true, now))

	repo := NewRepository(mock)
	services, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].Name != "Hydrotherapy" {
		t.Errorf("unexpected first service: %s", services[0].Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetService_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.NewString()
	mock.ExpectQuery(`SELECT id, name, description, duration_minutes, price_cents, active, created_at`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "description", "duration_minutes", "price_cents", "active", "created_at",
		}))

	repo := NewRepository(mock)
	svc, err := repo.GetService(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Fatalf("expected nil service, got %#v", svc)
	}
}
