package handler

import (
	"net/http"

	"leadmarket_backend/internal/deliveries/repository"
	"leadmarket_backend/internal/events"
	"leadmarket_backend/platform/httpkit"
	"leadmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// SetOutcomeRequest records a contractor's response to a delivered lead.
type SetOutcomeRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=pending viewed accepted rejected no_response"`
}

// Handler serves the admin delivery endpoints.
type Handler struct {
	repo *repository.Repo
	bus  events.Bus
	val  *validator.Validator
}

// New creates the deliveries handler.
func New(repo *repository.Repo, bus events.Bus, val *validator.Validator) *Handler {
	return &Handler{repo: repo, bus: bus, val: val}
}

// RegisterRoutes mounts the delivery routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lead/:id", h.ListByLead)
	rg.GET("/contractor/:id", h.ListByContractor)
	rg.PATCH("/:id/outcome", h.SetOutcome)
}

// ListByLead returns the deliveries created for a lead.
func (h *Handler) ListByLead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	deliveries, err := h.repo.ListByLead(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, deliveries)
}

// ListByContractor returns the deliveries sent to a contractor.
func (h *Handler) ListByContractor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	deliveries, err := h.repo.ListByContractor(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, deliveries)
}

// SetOutcome records a contractor's response to a delivery.
func (h *Handler) SetOutcome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req SetOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	delivery, err := h.repo.SetOutcome(c.Request.Context(), id, repository.Outcome(req.Outcome))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.bus.Publish(c.Request.Context(), events.DeliveryOutcomeChanged{
		BaseEvent:    events.NewBaseEvent(),
		DeliveryID:   delivery.ID,
		LeadID:       delivery.LeadID,
		ContractorID: delivery.ContractorID,
		Outcome:      string(delivery.Outcome),
	})

	httpkit.OK(c, delivery)
}
