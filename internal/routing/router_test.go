package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgExpectedSuccess = "expected Success=true, got false (error=%q)"
	msgExpectedFailure = "expected Success=false, got true"
)

type fakeMatcher struct {
	ids []uuid.UUID
	err error
}

func (f *fakeMatcher) Match(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return f.ids, f.err
}

type fakeLeadReader struct {
	inputs PricingInputs
	err    error
	calls  int
}

func (f *fakeLeadReader) GetPricingInputs(_ context.Context, _ uuid.UUID) (PricingInputs, error) {
	f.calls++
	return f.inputs, f.err
}

type fakeDeliveryWriter struct {
	batches [][]NewDelivery
	err     error
}

func (f *fakeDeliveryWriter) CreateBatch(_ context.Context, deliveries []NewDelivery) ([]uuid.UUID, error) {
	f.batches = append(f.batches, deliveries)
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]uuid.UUID, len(deliveries))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids, nil
}

type fakeStatusWriter struct {
	calls int
	err   error
}

func (f *fakeStatusWriter) MarkSent(_ context.Context, _ uuid.UUID) error {
	f.calls++
	return f.err
}

func contractorIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func newTestRouter(matcher Matcher, leads LeadReader, deliveries DeliveryWriter, status StatusWriter) *Router {
	resolver := NewResolver(&fakeRuleStore{found: false}, DefaultPriceBook(), logger.New("test"))
	return NewRouter(matcher, resolver, leads, deliveries, status, logger.New("test"))
}

func hvacEmergencyInputs() PricingInputs {
	return PricingInputs{ServiceType: domain.ServiceHVACRepair, Urgency: domain.UrgencyEmergency}
}

func TestRouteHappyPath(t *testing.T) {
	matched := contractorIDs(3)
	leads := &fakeLeadReader{inputs: hvacEmergencyInputs()}
	deliveries := &fakeDeliveryWriter{}
	status := &fakeStatusWriter{}

	router := newTestRouter(&fakeMatcher{ids: matched}, leads, deliveries, status)
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	router.now = func() time.Time { return fixed }

	result := router.Route(context.Background(), uuid.New())

	if !result.Success {
		t.Fatalf(msgExpectedSuccess, result.Error)
	}
	if result.MatchedContractors != 3 {
		t.Fatalf("expected 3 matched contractors, got %d", result.MatchedContractors)
	}
	if len(result.DeliveryIDs) != 3 {
		t.Fatalf("expected 3 delivery ids, got %d", len(result.DeliveryIDs))
	}
	if result.Price != 37.5 {
		t.Fatalf("expected price 37.50, got %.2f", result.Price)
	}
	if status.calls != 1 {
		t.Fatalf("expected MarkSent to be called once, got %d", status.calls)
	}

	if len(deliveries.batches) != 1 {
		t.Fatalf("expected a single batch insert, got %d", len(deliveries.batches))
	}
	for _, d := range deliveries.batches[0] {
		if d.Price != 37.5 {
			t.Fatalf("expected each delivery priced 37.50, got %.2f", d.Price)
		}
		if d.IsExclusive {
			t.Fatal("expected shared deliveries, got exclusive")
		}
		if !d.SentAt.Equal(fixed) {
			t.Fatalf("expected shared sentAt %v, got %v", fixed, d.SentAt)
		}
	}
}

func TestRouteZeroMatchesIsSuccessWithoutWrites(t *testing.T) {
	leads := &fakeLeadReader{inputs: hvacEmergencyInputs()}
	deliveries := &fakeDeliveryWriter{}
	status := &fakeStatusWriter{}

	router := newTestRouter(&fakeMatcher{ids: nil}, leads, deliveries, status)
	result := router.Route(context.Background(), uuid.New())

	if !result.Success {
		t.Fatalf(msgExpectedSuccess, result.Error)
	}
	if result.Error != NoMatchesMessage {
		t.Fatalf("expected informational message %q, got %q", NoMatchesMessage, result.Error)
	}
	if len(result.DeliveryIDs) != 0 {
		t.Fatalf("expected no delivery ids, got %d", len(result.DeliveryIDs))
	}
	if leads.calls != 0 {
		t.Fatal("expected no pricing read on zero matches")
	}
	if len(deliveries.batches) != 0 || status.calls != 0 {
		t.Fatal("expected no writes on zero matches")
	}
}

func TestRouteMatcherFailureAborts(t *testing.T) {
	deliveries := &fakeDeliveryWriter{}
	status := &fakeStatusWriter{}

	router := newTestRouter(&fakeMatcher{err: errors.New("function timeout")}, &fakeLeadReader{}, deliveries, status)
	result := router.Route(context.Background(), uuid.New())

	if result.Success {
		t.Fatal(msgExpectedFailure)
	}
	if result.MatchedContractors != 0 {
		t.Fatalf("expected 0 matched contractors, got %d", result.MatchedContractors)
	}
	if result.Error != "function timeout" {
		t.Fatalf("expected matcher error surfaced, got %q", result.Error)
	}
	if len(deliveries.batches) != 0 || status.calls != 0 {
		t.Fatal("expected no writes after matcher failure")
	}
}

func TestRouteLeadReadFailureAborts(t *testing.T) {
	leads := &fakeLeadReader{err: errors.New("no rows in result set")}
	deliveries := &fakeDeliveryWriter{}

	router := newTestRouter(&fakeMatcher{ids: contractorIDs(2)}, leads, deliveries, &fakeStatusWriter{})
	result := router.Route(context.Background(), uuid.New())

	if result.Success {
		t.Fatal(msgExpectedFailure)
	}
	if result.Error != leadNotFoundMessage {
		t.Fatalf("expected %q, got %q", leadNotFoundMessage, result.Error)
	}
	if len(deliveries.batches) != 0 {
		t.Fatal("expected no delivery writes after lead read failure")
	}
}

func TestRouteBatchFailureReportsMatchCount(t *testing.T) {
	leads := &fakeLeadReader{inputs: hvacEmergencyInputs()}
	deliveries := &fakeDeliveryWriter{err: errors.New("duplicate key value violates unique constraint")}
	status := &fakeStatusWriter{}

	router := newTestRouter(&fakeMatcher{ids: contractorIDs(3)}, leads, deliveries, status)
	result := router.Route(context.Background(), uuid.New())

	if result.Success {
		t.Fatal(msgExpectedFailure)
	}
	if result.MatchedContractors != 3 {
		t.Fatalf("expected match count 3 preserved on batch failure, got %d", result.MatchedContractors)
	}
	if len(result.DeliveryIDs) != 0 {
		t.Fatalf("expected empty delivery ids, got %d", len(result.DeliveryIDs))
	}
	if status.calls != 0 {
		t.Fatal("expected no status update after batch failure")
	}
}

func TestRouteStatusFailureStillSucceeds(t *testing.T) {
	leads := &fakeLeadReader{inputs: hvacEmergencyInputs()}
	status := &fakeStatusWriter{err: errors.New("deadlock detected")}

	router := newTestRouter(&fakeMatcher{ids: contractorIDs(2)}, leads, &fakeDeliveryWriter{}, status)
	result := router.Route(context.Background(), uuid.New())

	if !result.Success {
		t.Fatalf(msgExpectedSuccess, result.Error)
	}
	if len(result.DeliveryIDs) != 2 {
		t.Fatalf("expected 2 delivery ids, got %d", len(result.DeliveryIDs))
	}
	if result.Error != "" {
		t.Fatalf("expected no error on best-effort status failure, got %q", result.Error)
	}
}
