// Package leads provides the lead intake and management bounded context.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"leadmarket_backend/internal/events"
	apphttp "leadmarket_backend/internal/http"
	"leadmarket_backend/internal/leads/handler"
	"leadmarket_backend/internal/leads/repository"
	"leadmarket_backend/internal/leads/service"
	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/logger"
	"leadmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// The router is injected rather than constructed here because its
// collaborators span the pricing and deliveries contexts.
func NewModule(pool *pgxpool.Pool, router *routing.Router, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, router, eventBus, log)

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublic(svc, val),
		service:       svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// Service exposes the lead service for other composition-root wiring.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the public intake routes (rate limited) and the
// admin management routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/leads")
	public.Use(ctx.IntakeRateLimiter.RateLimit())
	m.publicHandler.RegisterRoutes(public)

	m.handler.RegisterRoutes(ctx.Admin.Group("/leads"))
}
