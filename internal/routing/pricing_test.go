package routing

import (
	"context"
	"errors"
	"testing"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/logger"
)

const fmtExpectedPrice = "expected price %.2f, got %.2f"

type fakeRuleStore struct {
	rule  Rule
	found bool
	err   error
	calls int
}

func (f *fakeRuleStore) FindDefault(_ context.Context, _ domain.ServiceType, _ domain.Urgency, _ bool) (Rule, bool, error) {
	f.calls++
	return f.rule, f.found, f.err
}

func newTestResolver(store RuleStore) *Resolver {
	return NewResolver(store, DefaultPriceBook(), logger.New("test"))
}

func TestResolveReturnsRulePriceVerbatim(t *testing.T) {
	store := &fakeRuleStore{
		rule:  Rule{ServiceType: domain.ServiceHVACRepair, Urgency: domain.UrgencyEmergency, BasePrice: 42},
		found: true,
	}
	resolver := newTestResolver(store)

	// The stored price already bakes in urgency; no multiplier on top.
	price := resolver.Resolve(context.Background(), domain.ServiceHVACRepair, domain.UrgencyEmergency, false)
	if price != 42 {
		t.Fatalf(fmtExpectedPrice, 42.0, price)
	}
}

func TestResolveFallbackAppliesUrgencyMultiplier(t *testing.T) {
	resolver := newTestResolver(&fakeRuleStore{found: false})

	// hvac_repair shared base 25 x emergency 1.5
	price := resolver.Resolve(context.Background(), domain.ServiceHVACRepair, domain.UrgencyEmergency, false)
	if price != 37.5 {
		t.Fatalf(fmtExpectedPrice, 37.5, price)
	}
}

func TestResolveFallbackUsesExclusiveBase(t *testing.T) {
	resolver := newTestResolver(&fakeRuleStore{found: false})

	// water_heater exclusive base 100 x flexible 0.8
	price := resolver.Resolve(context.Background(), domain.ServiceWaterHeater, domain.UrgencyFlexible, true)
	if price != 80 {
		t.Fatalf(fmtExpectedPrice, 80.0, price)
	}
}

func TestResolveIgnoresNonPositiveRulePrice(t *testing.T) {
	store := &fakeRuleStore{
		rule:  Rule{BasePrice: 0},
		found: true,
	}
	resolver := newTestResolver(store)

	price := resolver.Resolve(context.Background(), domain.ServicePlumbingRepair, domain.UrgencyThisWeek, false)
	if price != 20 {
		t.Fatalf(fmtExpectedPrice, 20.0, price)
	}
}

func TestResolveSoftFailsOnStoreError(t *testing.T) {
	store := &fakeRuleStore{err: errors.New("connection refused")}
	resolver := newTestResolver(store)

	price := resolver.Resolve(context.Background(), domain.ServiceHVACInstall, domain.UrgencyToday, false)
	if price != 45*1.25 {
		t.Fatalf(fmtExpectedPrice, 45*1.25, price)
	}
	if store.calls != 1 {
		t.Fatalf("expected 1 rule lookup, got %d", store.calls)
	}
}

func TestResolveAlwaysPositiveAcrossGrid(t *testing.T) {
	resolver := newTestResolver(&fakeRuleStore{found: false})

	for _, serviceType := range domain.ServiceTypes {
		for _, urgency := range domain.Urgencies {
			for _, exclusive := range []bool{false, true} {
				price := resolver.Resolve(context.Background(), serviceType, urgency, exclusive)
				if price <= 0 {
					t.Fatalf("expected positive price for %s/%s exclusive=%v, got %.2f",
						serviceType, urgency, exclusive, price)
				}
			}
		}
	}
}

func TestResolvePanicsOnUnknownServiceType(t *testing.T) {
	resolver := newTestResolver(&fakeRuleStore{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown service type")
		}
	}()
	resolver.Resolve(context.Background(), domain.ServiceType("roofing"), domain.UrgencyToday, false)
}

func TestResolvePanicsOnUnknownUrgency(t *testing.T) {
	resolver := newTestResolver(&fakeRuleStore{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown urgency")
		}
	}()
	resolver.Resolve(context.Background(), domain.ServiceHVACRepair, domain.Urgency("someday"), false)
}
