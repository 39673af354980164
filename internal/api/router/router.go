package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	httpmiddleware "github.com/heralf/legal-leads/internal/http/middleware"
	"github.com/heralf/legal-leads/internal/leads"
	"github.com/heralf/legal-leads/internal/whatsapp"
	"github.com/heralf/legal-leads/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	LeadsHandler    *leads.Handler
	WhatsAppHandler *whatsapp.Handler
	MetricsHandler  http.Handler
	AllowedOrigin   string
	AdminAuthSecret string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware("leads-api", otelchi.WithChiRoutes(r)))
	r.Use(httpmiddleware.CORS(cfg.AllowedOrigin))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.WhatsAppHandler != nil {
			public.Route("/webhook/whatsapp", func(wh chi.Router) {
				wh.Get("/", cfg.WhatsAppHandler.Verify)
				wh.Post("/", cfg.WhatsAppHandler.Receive)
			})
		}
	})

	// Form submission, rate limited per client IP
	r.Group(func(form chi.Router) {
		if cfg.RateLimitRPS > 0 {
			form.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		form.Post("/formulario", cfg.LeadsHandler.SubmitHTTP)
	})

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
