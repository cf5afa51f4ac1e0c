package notification

import (
	"context"
	"testing"

	"leadmarket_backend/internal/events"
	"leadmarket_backend/internal/scheduler"
	"leadmarket_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeDispatcher struct {
	confirmations []scheduler.LeadConfirmationPayload
	alerts        []scheduler.ContractorAlertsPayload
}

func (f *fakeDispatcher) EnqueueLeadConfirmation(_ context.Context, payload scheduler.LeadConfirmationPayload) error {
	f.confirmations = append(f.confirmations, payload)
	return nil
}

func (f *fakeDispatcher) EnqueueContractorAlerts(_ context.Context, payload scheduler.ContractorAlertsPayload) error {
	f.alerts = append(f.alerts, payload)
	return nil
}

func TestLeadSubmittedEnqueuesConfirmation(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	dispatcher := &fakeDispatcher{}
	NewModule(bus, dispatcher, logger.New("test"))

	leadID := uuid.New()
	email := "dana@example.com"
	err := bus.PublishSync(context.Background(), events.LeadSubmitted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Email:     &email,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(dispatcher.confirmations) != 1 {
		t.Fatalf("expected 1 confirmation enqueue, got %d", len(dispatcher.confirmations))
	}
	if dispatcher.confirmations[0].LeadID != leadID.String() {
		t.Fatalf("expected lead id %s, got %s", leadID, dispatcher.confirmations[0].LeadID)
	}
}

func TestLeadSubmittedWithoutEmailSkipsConfirmation(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	dispatcher := &fakeDispatcher{}
	NewModule(bus, dispatcher, logger.New("test"))

	err := bus.PublishSync(context.Background(), events.LeadSubmitted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(dispatcher.confirmations) != 0 {
		t.Fatal("expected no confirmation enqueue without an email address")
	}
}

func TestLeadRoutedEnqueuesContractorAlerts(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	dispatcher := &fakeDispatcher{}
	NewModule(bus, dispatcher, logger.New("test"))

	leadID := uuid.New()
	err := bus.PublishSync(context.Background(), events.LeadRouted{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      leadID,
		DeliveryIDs: []uuid.UUID{uuid.New(), uuid.New()},
		Price:       37.5,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(dispatcher.alerts) != 1 {
		t.Fatalf("expected 1 alerts enqueue, got %d", len(dispatcher.alerts))
	}
	if dispatcher.alerts[0].Price != 37.5 {
		t.Fatalf("expected price 37.50, got %.2f", dispatcher.alerts[0].Price)
	}
}

func TestNilDispatcherConsumesEventsQuietly(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	NewModule(bus, nil, logger.New("test"))

	email := "dana@example.com"
	if err := bus.PublishSync(context.Background(), events.LeadSubmitted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Email:     &email,
	}); err != nil {
		t.Fatalf("expected nil dispatcher to be tolerated, got %v", err)
	}

	if err := bus.PublishSync(context.Background(), events.LeadRoutingFailed{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Reason:    "batch insert failed",
	}); err != nil {
		t.Fatalf("expected routing failure event to be consumed, got %v", err)
	}
}
