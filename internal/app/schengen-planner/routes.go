// Package schengenplanner предоставляет маршруты для основного приложения.
package schengenplanner

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/compute"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/health"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/list"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/read"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/remove"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/save"
	"github.com/magabrotheeeer/schengen-planner/internal/http/handlers/plan/windows"
	"github.com/magabrotheeeer/schengen-planner/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/schengen-planner/internal/services/auth"
	plannerservice "github.com/magabrotheeeer/schengen-planner/internal/services/planner"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, plannerService *plannerservice.PlannerService, authService *authservice.AuthService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/plans/compute", compute.New(logger, plannerService).ServeHTTP)
		r.Get("/windows", windows.New(logger, plannerService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/plans", save.New(logger, plannerService).ServeHTTP)
			r.Get("/plans/list", list.New(logger, plannerService).ServeHTTP)
			r.With(middlewarectx.PlanOwnerMiddleware(logger, plannerService)).
				Get("/plans/{id}", read.New(logger, plannerService).ServeHTTP)
			r.With(middlewarectx.PlanOwnerMiddleware(logger, plannerService)).
				Delete("/plans/{id}", remove.New(logger, plannerService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
