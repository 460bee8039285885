package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/evergreenclinic/clinic-platform/internal/clinic"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

type fakeCatalog struct {
	services []clinic.Service
	err      error
}

func (f *fakeCatalog) ListActive(ctx context.Context) ([]clinic.Service, error) {
	return f.services, f.err
}

func TestResolveCaseInsensitiveSubstring(t *testing.T) {
	yogaID := uuid.New()
	catalog := &fakeCatalog{services: []clinic.Service{
		{ID: uuid.New(), Name: "Hydrotherapy"},
		{ID: yogaID, Name: "Therapeutic Yoga"},
	}}

	r := NewServiceResolver(catalog, logging.Default())
	ref := r.Resolve(context.Background(), "yoga")
	if ref == nil {
		t.Fatal("expected a match")
	}
	if ref.ID != yogaID || ref.Name != "Therapeutic Yoga" {
		t.Fatalf("unexpected ref: %#v", ref)
	}

	if got := r.Resolve(context.Background(), "HYDRO"); got == nil || got.Name != "Hydrotherapy" {
		t.Fatalf("expected Hydrotherapy, got %#v", got)
	}
}

func TestResolveNoMatchReturnsNil(t *testing.T) {
	catalog := &fakeCatalog{services: []clinic.Service{{ID: uuid.New(), Name: "Hydrotherapy"}}}

	r := NewServiceResolver(catalog, logging.Default())
	if ref := r.Resolve(context.Background(), "zzz-nonexistent"); ref != nil {
		t.Fatalf("expected nil, got %#v", ref)
	}
}

func TestResolveCatalogErrorReturnsNil(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("db down")}

	r := NewServiceResolver(catalog, logging.Default())
	if ref := r.Resolve(context.Background(), "yoga"); ref != nil {
		t.Fatalf("expected nil on catalog error, got %#v", ref)
	}
}

func TestResolveEmptyQueryReturnsNil(t *testing.T) {
	r := NewServiceResolver(&fakeCatalog{}, logging.Default())
	if ref := r.Resolve(context.Background(), "  "); ref != nil {
		t.Fatalf("expected nil for empty query, got %#v", ref)
	}
}
