// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadmarket_backend/platform/events"
	"leadmarket_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadSubmitted is published when a homeowner submits a new lead through a
// public intake form.
type LeadSubmitted struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	ServiceType string    `json:"serviceType"`
	Urgency     string    `json:"urgency"`
	ZipCode     string    `json:"zipCode"`
	Email       *string   `json:"email,omitempty"`
	Name        string    `json:"name"`
}

func (e LeadSubmitted) EventName() string { return "leads.lead.submitted" }

// =============================================================================
// Routing Domain Events
// =============================================================================

// LeadRouted is published after a lead was successfully routed to one or
// more contractors.
type LeadRouted struct {
	BaseEvent
	LeadID      uuid.UUID   `json:"leadId"`
	DeliveryIDs []uuid.UUID `json:"deliveryIds"`
	Price       float64     `json:"price"`
}

func (e LeadRouted) EventName() string { return "routing.lead.routed" }

// LeadRoutingFailed is published when a routing attempt did not produce
// deliveries, either because no contractors matched or a step failed.
type LeadRoutingFailed struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Matched int       `json:"matched"`
	Reason  string    `json:"reason"`
}

func (e LeadRoutingFailed) EventName() string { return "routing.lead.routing_failed" }

// =============================================================================
// Deliveries Domain Events
// =============================================================================

// DeliveryOutcomeChanged is published when a contractor responds to a
// delivered lead.
type DeliveryOutcomeChanged struct {
	BaseEvent
	DeliveryID   uuid.UUID `json:"deliveryId"`
	LeadID       uuid.UUID `json:"leadId"`
	ContractorID uuid.UUID `json:"contractorId"`
	Outcome      string    `json:"outcome"`
}

func (e DeliveryOutcomeChanged) EventName() string { return "deliveries.delivery.outcome_changed" }
