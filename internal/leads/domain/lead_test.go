package domain

import "testing"

func TestServiceTypeValid(t *testing.T) {
	for _, serviceType := range ServiceTypes {
		if !serviceType.Valid() {
			t.Fatalf("expected %q to be valid", serviceType)
		}
	}
	if ServiceType("roofing").Valid() {
		t.Fatal("expected unknown service type to be invalid")
	}
	if ServiceType("").Valid() {
		t.Fatal("expected empty service type to be invalid")
	}
}

func TestUrgencyValid(t *testing.T) {
	for _, urgency := range Urgencies {
		if !urgency.Valid() {
			t.Fatalf("expected %q to be valid", urgency)
		}
	}
	if Urgency("someday").Valid() {
		t.Fatal("expected unknown urgency to be invalid")
	}
}

func TestServiceTypeLabel(t *testing.T) {
	if got := ServiceHVACRepair.Label(); got != "HVAC Repair" {
		t.Fatalf("expected label HVAC Repair, got %q", got)
	}
	// Unknown values fall back to the raw string rather than panicking.
	if got := ServiceType("roofing").Label(); got != "roofing" {
		t.Fatalf("expected raw fallback label, got %q", got)
	}
}
