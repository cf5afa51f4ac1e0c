package handler

import (
	"net/http"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/leads/service"
	"leadmarket_backend/internal/leads/transport"
	"leadmarket_backend/platform/httpkit"
	"leadmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated intake endpoints.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

// NewPublic creates the public intake handler.
func NewPublic(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// RegisterRoutes mounts the intake routes on the given group.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.POST("/quick", h.QuickSubmit)
	rg.GET("/service-types", h.ServiceTypes)
}

// Submit handles the full intake form.
func (h *PublicHandler) Submit(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Created(c, resp)
}

// QuickSubmit handles the short landing-page form.
func (h *PublicHandler) QuickSubmit(c *gin.Context) {
	var req transport.QuickLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.QuickSubmit(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Created(c, resp)
}

// ServiceTypes lists the supported service types for form dropdowns.
func (h *PublicHandler) ServiceTypes(c *gin.Context) {
	options := make([]transport.ServiceTypeOption, 0, len(domain.ServiceTypes))
	for _, st := range domain.ServiceTypes {
		options = append(options, transport.ServiceTypeOption{Value: st, Label: st.Label()})
	}
	httpkit.OK(c, options)
}
