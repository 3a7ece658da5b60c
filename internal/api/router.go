package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/event-hub/internal/api/handlers"
	"github.com/baharkarakas/event-hub/internal/config"
	"github.com/baharkarakas/event-hub/internal/metrics"
	"github.com/baharkarakas/event-hub/internal/middleware"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/services"
)

type RouterDeps struct {
	Cfg    config.Config
	Log    *slog.Logger
	Auth   *services.AuthService
	Events *services.EventService
	Regs   *services.RegistrationService
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.Logging(d.Log), middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	routes := mount(d)
	r.Group(routes)
	r.Route("/api/v1", routes)
	return r
}

// mount registers the API once; it is served both at the root and under /api/v1.
func mount(d RouterDeps) func(chi.Router) {
	authMW := middleware.NewAuthMiddleware(d.Auth)
	ah := handlers.NewAuthHandler(d.Auth)
	eh := handlers.NewEventHandler(d.Events)
	rh := handlers.NewRegistrationHandler(d.Regs)

	return func(r chi.Router) {
		// ---------- public ----------
		r.Post("/auth/login", ah.Login)
		r.Post("/auth/register", ah.Register)
		r.Get("/event/feed", eh.Feed)

		// ---------- authenticated ----------
		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			r.Post("/auth/logout", ah.Logout)
			r.Get("/auth/me", ah.Me)

			r.Get("/event", eh.List)
			r.Get("/event/{id}", eh.Get)
			r.With(middleware.RequireCapability(models.CapCreateEvent)).Post("/event", eh.Create)
			r.Put("/event/{id}", eh.Update)
			r.Delete("/event/{id}", eh.Delete)
			r.Post("/event/{id}/image", eh.UploadImage)

			r.Get("/user/events/{userId}", rh.UserEvents)

			r.Post("/registration", rh.Create)
			r.Delete("/registration/{id}", rh.Delete)
		})
	}
}
