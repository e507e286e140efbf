// Package rest assembles the HTTP router of the Digital Diner API.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/CameronXie/digital-diner/internal/api/rest/handlers"
	"github.com/CameronXie/digital-diner/internal/api/rest/middlewares"
	"github.com/CameronXie/digital-diner/internal/api/rest/response"
)

const corsMaxAge = 300

type RouterConfig struct {
	AuthHandler  *handlers.AuthHandler
	MenuHandler  *handlers.MenuHandler
	OrderHandler *handlers.OrderHandler
	UserHandler  *handlers.UserHandler

	AuthenticationMiddleware middlewares.Middleware
	AuthorizationMiddleware  middlewares.Middleware
	RequestObserver          middlewares.Middleware
	MetricsHandler           http.Handler

	CORSOrigins []string
	// AuthRateLimit is the number of signup and login requests allowed per client IP
	// in AuthRateLimitWindow. Zero disables the limit.
	AuthRateLimit       int
	AuthRateLimitWindow time.Duration
}

// NewRouter initializes a chi router with every route of the API mounted under /api.
func NewRouter(cfg *RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RealIP,
		middlewares.RequestID,
		cfg.RequestObserver.Handle,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{middlewares.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           corsMaxAge,
		}),
	)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Digital Diner API is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)

	authenticate := cfg.AuthenticationMiddleware.Handle
	authorize := cfg.AuthorizationMiddleware.Handle

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(cfg.AuthRateLimit, cfg.AuthRateLimitWindow))
			}
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", cfg.MenuHandler.ListAvailable)
			r.Get("/categories", cfg.MenuHandler.Categories)
			r.Get("/category/{category}", cfg.MenuHandler.ListByCategory)
			r.Get("/item/{id}", cfg.MenuHandler.GetItem)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, authorize)
				r.Post("/", cfg.MenuHandler.CreateItem)
				r.Put("/item/{id}", cfg.MenuHandler.UpdateItem)
				r.Delete("/item/{id}", cfg.MenuHandler.DeleteItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.OrderHandler.CreateOrder)
			r.Get("/phone/{phone}", cfg.OrderHandler.ListByPhone)
			r.Get("/{id}", cfg.OrderHandler.GetOrder)

			r.With(authenticate, authorize).Put("/{id}/status", cfg.OrderHandler.UpdateStatus)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			r.With(authorize).Get("/", cfg.UserHandler.ListUsers)
			r.Get("/{id}", cfg.UserHandler.GetProfile)
			r.Put("/{id}", cfg.UserHandler.UpdateProfile)
		})
	})

	return r
}
