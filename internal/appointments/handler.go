package appointments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// Handler wires HTTP requests to the appointments service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Book handles POST /appointments (the human booking form).
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req FormBooking
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.BookViaForm(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to book appointment", "error", err)
		http.Error(w, "Failed to book appointment", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusCreated, appt)
}

// ListUpcoming handles GET /admin/appointments.
func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	appts, err := h.service.ListUpcoming(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "Failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}

	h.writeJSON(w, http.StatusOK, appts)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
