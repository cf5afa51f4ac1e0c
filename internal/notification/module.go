// Package notification bridges domain events to background email tasks.
// Domain modules publish events without knowing about email providers or
// queues; this module subscribes and enqueues the corresponding tasks.
package notification

import (
	"context"

	"leadmarket_backend/internal/events"
	"leadmarket_backend/internal/scheduler"
	"leadmarket_backend/platform/logger"
)

// Module wires domain events to the task dispatcher. It has no HTTP surface.
type Module struct {
	dispatcher scheduler.Dispatcher
	log        *logger.Logger
}

// NewModule subscribes the notification handlers on the event bus.
// A nil dispatcher disables notifications (local development without Redis);
// events are still consumed and logged.
func NewModule(bus events.Bus, dispatcher scheduler.Dispatcher, log *logger.Logger) *Module {
	m := &Module{dispatcher: dispatcher, log: log}

	bus.Subscribe(events.LeadSubmitted{}.EventName(), events.HandlerFunc(m.onLeadSubmitted))
	bus.Subscribe(events.LeadRouted{}.EventName(), events.HandlerFunc(m.onLeadRouted))
	bus.Subscribe(events.LeadRoutingFailed{}.EventName(), events.HandlerFunc(m.onLeadRoutingFailed))

	return m
}

func (m *Module) onLeadSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadSubmitted)
	if !ok {
		return nil
	}
	if e.Email == nil || *e.Email == "" {
		return nil
	}
	if m.dispatcher == nil {
		m.log.Debug("notification dispatcher disabled, skipping lead confirmation", "leadId", e.LeadID)
		return nil
	}

	return m.dispatcher.EnqueueLeadConfirmation(ctx, scheduler.LeadConfirmationPayload{
		LeadID: e.LeadID.String(),
	})
}

func (m *Module) onLeadRouted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadRouted)
	if !ok {
		return nil
	}
	if m.dispatcher == nil {
		m.log.Debug("notification dispatcher disabled, skipping contractor alerts", "leadId", e.LeadID)
		return nil
	}

	return m.dispatcher.EnqueueContractorAlerts(ctx, scheduler.ContractorAlertsPayload{
		LeadID: e.LeadID.String(),
		Price:  e.Price,
	})
}

func (m *Module) onLeadRoutingFailed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadRoutingFailed)
	if !ok {
		return nil
	}

	// Surfaced for operators; the lead stays in status new for a retry.
	m.log.RoutingFailure(e.LeadID.String(), e.Reason)
	return nil
}
