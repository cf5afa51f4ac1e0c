// Package deliveries provides the lead delivery bounded context: the rows
// written by the routing engine plus contractor outcome tracking.
package deliveries

import (
	"leadmarket_backend/internal/deliveries/handler"
	"leadmarket_backend/internal/deliveries/repository"
	"leadmarket_backend/internal/events"
	apphttp "leadmarket_backend/internal/http"
	"leadmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the deliveries bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repo
}

// NewModule creates and initializes the deliveries module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	return &Module{
		handler: handler.New(repo, bus, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "deliveries" }

// Repository exposes the delivery store for the routing engine.
func (m *Module) Repository() *repository.Repo { return m.repo }

// RegisterRoutes mounts the admin delivery routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/deliveries"))
}
