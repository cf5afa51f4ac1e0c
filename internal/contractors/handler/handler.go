package handler

import (
	"net/http"

	"leadmarket_backend/internal/contractors/repository"
	"leadmarket_backend/internal/contractors/transport"
	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/httpkit"
	"leadmarket_backend/platform/phone"
	"leadmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the admin contractor management endpoints.
type Handler struct {
	repo *repository.Repo
	val  *validator.Validator
}

// New creates the contractors handler.
func New(repo *repository.Repo, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// RegisterRoutes mounts the contractor routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// List returns all contractors.
func (h *Handler) List(c *gin.Context) {
	contractors, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, contractors)
}

// Create onboards a contractor in status pending.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	for _, svc := range req.Services {
		if !domain.ServiceType(svc).Valid() {
			httpkit.HandleError(c, apperr.Validation("unknown service type: "+svc))
			return
		}
	}

	contractor, err := h.repo.Create(c.Request.Context(), repository.CreateParams{
		CompanyName:       req.CompanyName,
		ContactName:       req.ContactName,
		Email:             req.Email,
		Phone:             phone.NormalizeE164(req.Phone),
		NotificationEmail: req.NotificationEmail,
		NotificationPhone: req.NotificationPhone,
		Services:          req.Services,
		ServiceZips:       req.ServiceZips,
		City:              req.City,
		State:             req.State,
		Zip:               req.Zip,
		MaxLeadsPerDay:    req.MaxLeadsPerDay,
		MaxLeadsPerMonth:  req.MaxLeadsPerMonth,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Created(c, contractor)
}

// GetByID returns a single contractor.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	contractor, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, contractor)
}

// UpdateStatus transitions a contractor to a new lifecycle status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateContractorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.repo.SetStatus(c.Request.Context(), id, repository.Status(req.Status)); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"updated": true})
}
