package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/evergreenclinic/clinic-platform/internal/appointments"
	"github.com/evergreenclinic/clinic-platform/internal/clinic"
	"github.com/evergreenclinic/clinic-platform/internal/conversation"
	httpmiddleware "github.com/evergreenclinic/clinic-platform/internal/http/middleware"
	"github.com/evergreenclinic/clinic-platform/internal/patients"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// Config holds everything the router needs. Optional handlers are skipped
// when nil so partial deployments (e.g. chat only) still boot.
type Config struct {
	Logger              *logging.Logger
	ClinicHandler       *clinic.Handler
	AppointmentsHandler *appointments.Handler
	PatientsHandler     *patients.Handler
	ConversationHandler *conversation.Handler
	MetricsHandler      http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New builds the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.ClinicHandler != nil {
			public.Get("/services", cfg.ClinicHandler.ListServices)
			public.Get("/services/{serviceID}", cfg.ClinicHandler.GetService)
		}
		if cfg.AppointmentsHandler != nil {
			public.Post("/appointments", cfg.AppointmentsHandler.Book)
		}
		if cfg.PatientsHandler != nil {
			public.Post("/patients", cfg.PatientsHandler.Register)
		}
		if cfg.ConversationHandler != nil {
			chat := public
			if cfg.RateLimitPerSecond > 0 {
				chat = public.With(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
			}
			chat.Post("/api/chat", cfg.ConversationHandler.Chat)
		}
	})

	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		if cfg.AppointmentsHandler != nil {
			admin.Get("/admin/appointments", cfg.AppointmentsHandler.ListUpcoming)
		}
		if cfg.PatientsHandler != nil {
			admin.Get("/admin/patients/lookup", cfg.PatientsHandler.Lookup)
		}
		if cfg.ConversationHandler != nil {
			admin.Get("/admin/conversations/{conversationID}", cfg.ConversationHandler.History)
		}
	})

	return r
}
