package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// Handler serves the public service catalog.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListServices handles GET /services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "Failed to load services", http.StatusInternalServerError)
		return
	}
	if services == nil {
		services = []Service{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(services); err != nil {
		h.logger.Error("failed to write services response", "error", err)
	}
}

// GetService handles GET /services/{serviceID}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")

	svc, err := h.repo.GetService(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load service", "error", err, "service_id", id)
		http.Error(w, "Failed to load service", http.StatusInternalServerError)
		return
	}
	if svc == nil {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(svc); err != nil {
		h.logger.Error("failed to write service response", "error", err)
	}
}
