// Package pricing provides the lead pricing bounded context: persisted
// pricing rules plus the static fallback price book.
package pricing

import (
	apphttp "leadmarket_backend/internal/http"
	"leadmarket_backend/internal/pricing/handler"
	"leadmarket_backend/internal/pricing/repository"
	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pricing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repo
}

// NewModule creates and initializes the pricing module.
func NewModule(pool *pgxpool.Pool, book routing.PriceBook, val *validator.Validator) *Module {
	repo := repository.New(pool)
	return &Module{
		handler: handler.New(repo, book, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "pricing" }

// Rules exposes the rule store for the routing engine's resolver.
func (m *Module) Rules() *repository.Repo { return m.repo }

// RegisterRoutes mounts the admin pricing routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/pricing"))
}
