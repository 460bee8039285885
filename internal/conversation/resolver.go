package conversation

import (
	"context"
	"strings"

	"github.com/evergreenclinic/clinic-platform/internal/clinic"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// ServiceCatalog is the read-only view of the clinic's service catalog.
// clinic.Repository satisfies it.
type ServiceCatalog interface {
	ListActive(ctx context.Context) ([]clinic.Service, error)
}

// ServiceResolver maps a free-text service name onto a catalog entry using
// partial, case-insensitive matching. The catalog is small and curated, so
// matching happens in memory and ordering among multiple matches is
// whatever the catalog returns first.
type ServiceResolver struct {
	catalog ServiceCatalog
	logger  *logging.Logger
}

// NewServiceResolver creates a resolver over the given catalog.
func NewServiceResolver(catalog ServiceCatalog, logger *logging.Logger) *ServiceResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &ServiceResolver{catalog: catalog, logger: logger}
}

// Resolve returns the first catalog entry whose name contains the query,
// case-insensitively, or nil. No match is an expected outcome, not an
// error: the booking proceeds with a null service reference. Catalog read
// failures also resolve to nil rather than failing the turn.
func (r *ServiceResolver) Resolve(ctx context.Context, name string) *clinic.Ref {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" || r.catalog == nil {
		return nil
	}

	services, err := r.catalog.ListActive(ctx)
	if err != nil {
		r.logger.Warn("service catalog lookup failed, proceeding without service reference",
			"query", name,
			"error", err.Error(),
		)
		return nil
	}

	for _, svc := range services {
		if strings.Contains(strings.ToLower(svc.Name), query) {
			return &clinic.Ref{ID: svc.ID, Name: svc.Name}
		}
	}
	return nil
}
