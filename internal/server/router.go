// Package server assembles the HTTP router for the records service.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/domains/customers"
	"github.com/sangkips/records-service/internal/domains/orders"
	"github.com/sangkips/records-service/internal/domains/services"
	"github.com/sangkips/records-service/internal/handlers"
	"github.com/sangkips/records-service/internal/health"
)

type Deps struct {
	Customers      *customers.Handler
	Services       *services.Handler
	Orders         *orders.Handler
	Health         *health.Handler
	Render         *handlers.Renderer
	Logger         zerolog.Logger
	AllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", d.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		d.Render.Render(w, r, http.StatusOK, "index.html", handlers.Page{Title: "Records"})
	})

	r.Route("/customers", func(r chi.Router) {
		d.Customers.RegisterCustomerRoutes(r)
	})
	r.Route("/services", func(r chi.Router) {
		d.Services.RegisterServiceRoutes(r)
	})
	r.Route("/orders", func(r chi.Router) {
		d.Orders.RegisterOrderRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		d.Render.Error(w, r, http.StatusNotFound, "Page not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		d.Render.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
