package handler

import (
	"net/http"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/pricing/repository"
	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/httpkit"
	"leadmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// UpsertRuleRequest creates or replaces a pricing rule.
type UpsertRuleRequest struct {
	ServiceType string  `json:"serviceType" validate:"required"`
	Urgency     string  `json:"urgency" validate:"required"`
	IsExclusive bool    `json:"isExclusive"`
	State       *string `json:"state,omitempty" validate:"omitempty,len=2"`
	MetroArea   *string `json:"metroArea,omitempty" validate:"omitempty,max=100"`
	BasePrice   float64 `json:"basePrice" validate:"required,gt=0"`
}

// Handler serves the admin pricing rule endpoints.
type Handler struct {
	repo *repository.Repo
	book routing.PriceBook
	val  *validator.Validator
}

// New creates the pricing handler.
func New(repo *repository.Repo, book routing.PriceBook, val *validator.Validator) *Handler {
	return &Handler{repo: repo, book: book, val: val}
}

// RegisterRoutes mounts the pricing routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rules", h.ListRules)
	rg.PUT("/rules", h.UpsertRule)
	rg.GET("/defaults", h.Defaults)
}

// ListRules returns every persisted pricing rule.
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, rules)
}

// UpsertRule creates or replaces a pricing rule.
func (h *Handler) UpsertRule(c *gin.Context) {
	var req UpsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	serviceType := domain.ServiceType(req.ServiceType)
	if !serviceType.Valid() {
		httpkit.HandleError(c, apperr.Validation("unknown service type"))
		return
	}
	urgency := domain.Urgency(req.Urgency)
	if !urgency.Valid() {
		httpkit.HandleError(c, apperr.Validation("unknown urgency"))
		return
	}

	rule, err := h.repo.Upsert(c.Request.Context(), repository.PricingRule{
		ServiceType: serviceType,
		Urgency:     urgency,
		IsExclusive: req.IsExclusive,
		State:       req.State,
		MetroArea:   req.MetroArea,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, rule)
}

// Defaults returns the static fallback price book used when no rule matches.
func (h *Handler) Defaults(c *gin.Context) {
	httpkit.OK(c, h.book)
}
