package stubserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silverrose/clinicforms/pkg/logging"
)

type RouterConfig struct {
	Store   *Store
	Env     string
	Version string
	Logger  *logging.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger.Named("stubserver")))

	health := NewHealthHandler(cfg.Store, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/api/appointments/", createAppointmentHandler(cfg.Store))
	r.Get("/api/appointments/", listAppointmentsHandler(cfg.Store))
	r.Post("/api/contacts/", createContactHandler(cfg.Store))
	r.Get("/api/contacts/", listContactsHandler(cfg.Store))

	return r
}
