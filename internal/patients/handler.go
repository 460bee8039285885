package patients

import (
	"encoding/json"
	"net/http"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// Handler wires HTTP requests to the patients repository.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a patients handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Register handles POST /patients.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req Patient
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode patient request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.repo.Register(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to register patient", "error", err)
		http.Error(w, "Failed to register patient", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusCreated, p)
}

// Lookup handles GET /admin/patients?phone=...
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		http.Error(w, "phone query parameter required", http.StatusBadRequest)
		return
	}

	p, err := h.repo.FindByPhone(r.Context(), phone)
	if err != nil {
		h.logger.Error("failed to look up patient", "error", err)
		http.Error(w, "Failed to look up patient", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
