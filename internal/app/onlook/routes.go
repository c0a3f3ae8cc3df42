// Package onlook предоставляет маршруты для основного приложения.
package onlook

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/auth/login"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/auth/register"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/billing/checkout"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/billing/portal"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/billing/pricechange"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/billing/pricechangerelease"
	billingsubscription "github.com/CloudEngineHub/onlook/internal/http/handlers/billing/subscription"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/billing/webhook"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/health"
	projectcreate "github.com/CloudEngineHub/onlook/internal/http/handlers/project/create"
	projectfull "github.com/CloudEngineHub/onlook/internal/http/handlers/project/full"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/project/generatename"
	projectlist "github.com/CloudEngineHub/onlook/internal/http/handlers/project/list"
	"github.com/CloudEngineHub/onlook/internal/http/handlers/project/previews"
	projectread "github.com/CloudEngineHub/onlook/internal/http/handlers/project/read"
	projectremove "github.com/CloudEngineHub/onlook/internal/http/handlers/project/remove"
	projectupdate "github.com/CloudEngineHub/onlook/internal/http/handlers/project/update"
	usagerecord "github.com/CloudEngineHub/onlook/internal/http/handlers/usage/record"
	usagesummary "github.com/CloudEngineHub/onlook/internal/http/handlers/usage/summary"
	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
	authservice "github.com/CloudEngineHub/onlook/internal/services/auth"
	billingservice "github.com/CloudEngineHub/onlook/internal/services/billing"
	projectservice "github.com/CloudEngineHub/onlook/internal/services/project"
	usageservice "github.com/CloudEngineHub/onlook/internal/services/usage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, billingService *billingservice.BillingService,
	projectService *projectservice.ProjectService, usageService *usageservice.UsageService) {
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
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/projects", projectcreate.New(logger, projectService).ServeHTTP)
			r.Get("/projects", projectlist.New(logger, projectService).ServeHTTP)
			r.Get("/projects/previews", previews.New(logger, projectService).ServeHTTP)
			r.Post("/projects/generate-name", generatename.New(logger, projectService).ServeHTTP)
			r.Get("/projects/{id}", projectread.New(logger, projectService).ServeHTTP)
			r.Get("/projects/{id}/full", projectfull.New(logger, projectService).ServeHTTP)
			r.Put("/projects/{id}", projectupdate.New(logger, projectService).ServeHTTP)
			r.Delete("/projects/{id}", projectremove.New(logger, projectService).ServeHTTP)

			r.Get("/billing/subscription", billingsubscription.New(logger, billingService).ServeHTTP)
			r.Post("/billing/checkout", checkout.New(logger, billingService).ServeHTTP)
			r.Post("/billing/portal", portal.New(logger, billingService).ServeHTTP)
			r.Post("/billing/subscription/price-change", pricechange.New(logger, billingService).ServeHTTP)
			r.Delete("/billing/subscription/price-change", pricechangerelease.New(logger, billingService).ServeHTTP)

			r.Get("/usage/summary", usagesummary.New(logger, usageService).ServeHTTP)
			r.Post("/usage/record", usagerecord.New(logger, usageService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/billing/webhook", webhook.New(logger, billingService, cfg.WebhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
