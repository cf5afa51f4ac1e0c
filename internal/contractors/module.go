// Package contractors provides the contractor management bounded context.
package contractors

import (
	"leadmarket_backend/internal/contractors/handler"
	"leadmarket_backend/internal/contractors/repository"
	apphttp "leadmarket_backend/internal/http"
	"leadmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contractors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repo
}

// NewModule creates and initializes the contractors module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	return &Module{
		handler: handler.New(repo, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "contractors" }

// Repository exposes the contractor store for worker wiring.
func (m *Module) Repository() *repository.Repo { return m.repo }

// RegisterRoutes mounts the admin contractor routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/contractors"))
}
