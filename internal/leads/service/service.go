// Package service implements lead intake and admin lead management.
package service

import (
	"context"
	"strings"

	"leadmarket_backend/internal/events"
	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/leads/repository"
	"leadmarket_backend/internal/leads/transport"
	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/logger"
	"leadmarket_backend/platform/phone"

	"github.com/google/uuid"
)

// Quick-form submissions carry only a ZIP, so the state defaults to the
// market this service operates in.
const defaultState = "GA"

// LeadStore is the persistence surface the service needs.
type LeadStore interface {
	Create(ctx context.Context, params repository.CreateParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error)
	UpdateStatus(ctx context.Context, leadID uuid.UUID, status domain.LeadStatus) error
}

// RoutingEngine runs a routing pass for a freshly created lead.
type RoutingEngine interface {
	Route(ctx context.Context, leadID uuid.UUID) routing.Result
}

// Service coordinates intake, persistence, and synchronous routing.
type Service struct {
	repo   LeadStore
	router RoutingEngine
	bus    events.Bus
	log    *logger.Logger
}

// New creates the lead service.
func New(repo LeadStore, router RoutingEngine, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, router: router, bus: bus, log: log}
}

// Submit handles a full intake form submission. Honeypot hits are dropped
// silently: the caller gets a normal-looking acknowledgement so bots cannot
// tell they were filtered.
//
// Routing runs synchronously after the insert. A routing failure never fails
// the submission; the lead stays in status new for a later retry.
func (s *Service) Submit(ctx context.Context, req transport.SubmitLeadRequest) (transport.SubmitLeadResponse, error) {
	if req.Website != "" {
		s.log.Warn("honeypot triggered, dropping submission", "serviceType", req.ServiceType)
		return transport.SubmitLeadResponse{Status: "received"}, nil
	}

	serviceType := domain.ServiceType(req.ServiceType)
	if !serviceType.Valid() {
		return transport.SubmitLeadResponse{}, apperr.Validation("unknown service type")
	}
	urgency := domain.Urgency(req.Urgency)
	if !urgency.Valid() {
		return transport.SubmitLeadResponse{}, apperr.Validation("unknown urgency")
	}

	propertyType := domain.PropertyType(req.PropertyType)
	if req.PropertyType == "" {
		propertyType = domain.PropertyResidential
	}
	source := domain.LeadSource(req.Source)
	if req.Source == "" {
		source = domain.SourceDirect
	}

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		ServiceType:  serviceType,
		Urgency:      urgency,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        phone.NormalizeE164(req.Phone),
		Email:        req.Email,
		Address:      req.Address,
		City:         req.City,
		State:        strings.ToUpper(strings.TrimSpace(req.State)),
		Zip:          req.Zip,
		PropertyType: propertyType,
		Description:  req.Description,
		Source:       source,
		SourceURL:    req.SourceURL,
		UTMSource:    req.UTMSource,
		UTMMedium:    req.UTMMedium,
		UTMCampaign:  req.UTMCampaign,
	})
	if err != nil {
		return transport.SubmitLeadResponse{}, err
	}

	s.publishSubmitted(ctx, lead)
	s.route(ctx, lead.ID)

	return transport.SubmitLeadResponse{
		LeadID: lead.ID.String(),
		Status: "received",
	}, nil
}

// QuickSubmit handles the short landing-page form.
func (s *Service) QuickSubmit(ctx context.Context, req transport.QuickLeadRequest) (transport.SubmitLeadResponse, error) {
	if req.Website != "" {
		s.log.Warn("honeypot triggered, dropping quick submission", "serviceType", req.ServiceType)
		return transport.SubmitLeadResponse{Status: "received"}, nil
	}

	serviceType := domain.ServiceType(req.ServiceType)
	if !serviceType.Valid() {
		return transport.SubmitLeadResponse{}, apperr.Validation("unknown service type")
	}
	if len(phone.Digits(req.Phone)) < 10 {
		return transport.SubmitLeadResponse{}, apperr.Validation("invalid phone number")
	}

	firstName, lastName := splitName(req.Name)

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		ServiceType:  serviceType,
		Urgency:      domain.UrgencyThisWeek,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone.NormalizeE164(req.Phone),
		State:        defaultState,
		Zip:          req.Zip,
		PropertyType: domain.PropertyResidential,
		Source:       domain.SourceDirect,
	})
	if err != nil {
		return transport.SubmitLeadResponse{}, err
	}

	s.publishSubmitted(ctx, lead)
	s.route(ctx, lead.ID)

	return transport.SubmitLeadResponse{
		LeadID: lead.ID.String(),
		Status: "received",
	}, nil
}

// GetByID returns a single lead for the admin dashboard.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered page of leads plus the total count.
func (s *Service) List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	return s.repo.List(ctx, params)
}

// UpdateStatus moves a lead to a new status from the admin dashboard.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Reroute re-runs the routing pass for an existing lead. Used from the admin
// dashboard when a lead got stuck in status new.
func (s *Service) Reroute(ctx context.Context, id uuid.UUID) (routing.Result, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return routing.Result{}, err
	}
	return s.route(ctx, id), nil
}

func (s *Service) route(ctx context.Context, leadID uuid.UUID) routing.Result {
	result := s.router.Route(ctx, leadID)

	if result.Success {
		if len(result.DeliveryIDs) > 0 {
			s.bus.Publish(ctx, events.LeadRouted{
				BaseEvent:   events.NewBaseEvent(),
				LeadID:      leadID,
				DeliveryIDs: result.DeliveryIDs,
				Price:       result.Price,
			})
		}
		return result
	}

	s.bus.Publish(ctx, events.LeadRoutingFailed{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Matched:   result.MatchedContractors,
		Reason:    result.Error,
	})
	return result
}

func (s *Service) publishSubmitted(ctx context.Context, lead repository.Lead) {
	s.bus.Publish(ctx, events.LeadSubmitted{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		ServiceType: string(lead.ServiceType),
		Urgency:     string(lead.Urgency),
		ZipCode:     lead.Zip,
		Email:       lead.Email,
		Name:        lead.FirstName + " " + lead.LastName,
	})
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
