package transport

import (
	"leadmarket_backend/internal/leads/domain"
)

// Request DTOs

// SubmitLeadRequest is the payload of the full public intake form.
// Website is a honeypot field rendered invisibly on the form; a non-empty
// value marks the submission as bot traffic.
type SubmitLeadRequest struct {
	ServiceType  string  `json:"serviceType" validate:"required"`
	Urgency      string  `json:"urgency" validate:"required"`
	FirstName    string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName     string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone        string  `json:"phone" validate:"required,min=7,max=20"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=200"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State        string  `json:"state" validate:"required,len=2"`
	Zip          string  `json:"zip" validate:"required,len=5,numeric"`
	PropertyType string  `json:"propertyType" validate:"omitempty,oneof=residential commercial"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Source       string  `json:"source" validate:"omitempty,oneof=seo ppc facebook referral direct"`
	SourceURL    *string `json:"sourceUrl,omitempty" validate:"omitempty,max=500"`
	UTMSource    *string `json:"utmSource,omitempty" validate:"omitempty,max=100"`
	UTMMedium    *string `json:"utmMedium,omitempty" validate:"omitempty,max=100"`
	UTMCampaign  *string `json:"utmCampaign,omitempty" validate:"omitempty,max=100"`
	Website      string  `json:"website,omitempty"`
}

// QuickLeadRequest is the short-form intake used on landing pages: just
// enough to start the routing pipeline.
type QuickLeadRequest struct {
	ServiceType string `json:"serviceType" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Zip         string `json:"zip" validate:"required,len=5,numeric"`
	Website     string `json:"website,omitempty"`
}

// UpdateLeadStatusRequest changes a lead's status from the admin dashboard.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new verified sent accepted rejected converted invalid"`
}

// Response DTOs

// SubmitLeadResponse is returned to the public form after a submission.
// Routing happens behind the submission but its outcome stays internal;
// the caller only learns that the request was received.
type SubmitLeadResponse struct {
	LeadID string `json:"leadId,omitempty"`
	Status string `json:"status"`
}

// ServiceTypeOption describes one service type for form dropdowns.
type ServiceTypeOption struct {
	Value domain.ServiceType `json:"value"`
	Label string             `json:"label"`
}
