package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"leadmarket_backend/internal/events"
	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/leads/repository"
	"leadmarket_backend/internal/leads/transport"
	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadStore struct {
	created []repository.CreateParams
}

func (f *fakeLeadStore) Create(_ context.Context, params repository.CreateParams) (repository.Lead, error) {
	f.created = append(f.created, params)
	return repository.Lead{
		ID:          uuid.New(),
		ServiceType: params.ServiceType,
		Urgency:     params.Urgency,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Zip:         params.Zip,
		Status:      domain.LeadStatusNew,
	}, nil
}

func (f *fakeLeadStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	return repository.Lead{ID: id}, nil
}

func (f *fakeLeadStore) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, int, error) {
	return nil, 0, nil
}

func (f *fakeLeadStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ domain.LeadStatus) error {
	return nil
}

type fakeRoutingEngine struct {
	result routing.Result
	calls  int
}

func (f *fakeRoutingEngine) Route(_ context.Context, _ uuid.UUID) routing.Result {
	f.calls++
	return f.result
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(_ string, _ events.Handler) {}

func (b *recordingBus) names() []string {
	names := make([]string, 0, len(b.published))
	for _, e := range b.published {
		names = append(names, e.EventName())
	}
	return names
}

func successResult(n int) routing.Result {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return routing.Result{Success: true, MatchedContractors: n, DeliveryIDs: ids, Price: 37.5}
}

func validSubmitRequest() transport.SubmitLeadRequest {
	return transport.SubmitLeadRequest{
		ServiceType: "hvac_repair",
		Urgency:     "emergency",
		FirstName:   "Dana",
		LastName:    "Whitfield",
		Phone:       "(404) 555-0142",
		State:       "ga",
		Zip:         "30309",
	}
}

func TestSubmitHoneypotDropsSilently(t *testing.T) {
	store := &fakeLeadStore{}
	engine := &fakeRoutingEngine{}
	bus := &recordingBus{}
	svc := New(store, engine, bus, logger.New("test"))

	req := validSubmitRequest()
	req.Website = "https://spam.example"

	resp, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("expected honeypot hit to look like success, got %v", err)
	}
	if resp.Status != "received" {
		t.Fatalf("expected status received, got %q", resp.Status)
	}
	if resp.LeadID != "" {
		t.Fatal("expected no lead id for honeypot hit")
	}
	if len(store.created) != 0 || engine.calls != 0 || len(bus.published) != 0 {
		t.Fatal("expected no side effects for honeypot hit")
	}
}

func TestSubmitCreatesLeadAndRoutes(t *testing.T) {
	store := &fakeLeadStore{}
	engine := &fakeRoutingEngine{result: successResult(2)}
	bus := &recordingBus{}
	svc := New(store, engine, bus, logger.New("test"))

	resp, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.LeadID == "" {
		t.Fatal("expected lead id in response")
	}
	if engine.calls != 1 {
		t.Fatalf("expected one routing pass, got %d", engine.calls)
	}

	created := store.created[0]
	if created.Phone != "+14045550142" {
		t.Fatalf("expected normalized phone, got %q", created.Phone)
	}
	if created.State != "GA" {
		t.Fatalf("expected uppercased state, got %q", created.State)
	}
	if created.PropertyType != domain.PropertyResidential {
		t.Fatalf("expected residential default, got %q", created.PropertyType)
	}
	if created.Source != domain.SourceDirect {
		t.Fatalf("expected direct source default, got %q", created.Source)
	}

	names := bus.names()
	if len(names) != 2 || names[0] != "leads.lead.submitted" || names[1] != "routing.lead.routed" {
		t.Fatalf("expected submitted+routed events, got %v", names)
	}
}

func TestSubmitRoutingFailureDoesNotFailSubmission(t *testing.T) {
	store := &fakeLeadStore{}
	const infraError = `connect to host db.internal failed: password authentication failed for user "leadmarket"`
	engine := &fakeRoutingEngine{result: routing.Result{
		Success:            false,
		MatchedContractors: 3,
		DeliveryIDs:        []uuid.UUID{},
		Error:              infraError,
	}}
	bus := &recordingBus{}
	svc := New(store, engine, bus, logger.New("test"))

	resp, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("expected submission to succeed despite routing failure, got %v", err)
	}
	if resp.Status != "received" {
		t.Fatalf("expected status received, got %q", resp.Status)
	}

	// The failure must stay operator-visible only; the response body the
	// public form sees carries no trace of the routing internals.
	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	if strings.Contains(string(body), "routing") || strings.Contains(string(body), "password") {
		t.Fatalf("routing internals leaked into public response: %s", body)
	}

	names := bus.names()
	if len(names) != 2 || names[1] != "routing.lead.routing_failed" {
		t.Fatalf("expected routing_failed event, got %v", names)
	}
}

func TestSubmitZeroMatchesPublishesNoRoutedEvent(t *testing.T) {
	engine := &fakeRoutingEngine{result: routing.Result{
		Success:     true,
		DeliveryIDs: []uuid.UUID{},
		Error:       routing.NoMatchesMessage,
	}}
	bus := &recordingBus{}
	svc := New(&fakeLeadStore{}, engine, bus, logger.New("test"))

	if _, err := svc.Submit(context.Background(), validSubmitRequest()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != "leads.lead.submitted" {
		t.Fatalf("expected only submitted event on zero matches, got %v", names)
	}
}

func TestSubmitRejectsUnknownServiceType(t *testing.T) {
	svc := New(&fakeLeadStore{}, &fakeRoutingEngine{}, &recordingBus{}, logger.New("test"))

	req := validSubmitRequest()
	req.ServiceType = "roofing"

	if _, err := svc.Submit(context.Background(), req); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuickSubmitSplitsNameAndDefaults(t *testing.T) {
	store := &fakeLeadStore{}
	engine := &fakeRoutingEngine{result: successResult(1)}
	svc := New(store, engine, &recordingBus{}, logger.New("test"))

	_, err := svc.QuickSubmit(context.Background(), transport.QuickLeadRequest{
		ServiceType: "water_heater",
		Name:        "Maria del Carmen Ruiz",
		Phone:       "404-555-0100",
		Zip:         "30030",
	})
	if err != nil {
		t.Fatalf("QuickSubmit: %v", err)
	}

	created := store.created[0]
	if created.FirstName != "Maria" || created.LastName != "del Carmen Ruiz" {
		t.Fatalf("expected split name, got %q %q", created.FirstName, created.LastName)
	}
	if created.Urgency != domain.UrgencyThisWeek {
		t.Fatalf("expected this_week urgency default, got %q", created.Urgency)
	}
	if created.State != defaultState {
		t.Fatalf("expected default state, got %q", created.State)
	}
}

func TestQuickSubmitRejectsShortPhone(t *testing.T) {
	svc := New(&fakeLeadStore{}, &fakeRoutingEngine{}, &recordingBus{}, logger.New("test"))

	_, err := svc.QuickSubmit(context.Background(), transport.QuickLeadRequest{
		ServiceType: "hvac_repair",
		Name:        "Lee",
		Phone:       "555-0100",
		Zip:         "30030",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
