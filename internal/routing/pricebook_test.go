package routing

import (
	"os"
	"path/filepath"
	"testing"

	"leadmarket_backend/internal/leads/domain"
)

func writePricebookFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricebook.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write pricebook file: %v", err)
	}
	return path
}

func TestLoadPriceBookOverlaysDefaults(t *testing.T) {
	path := writePricebookFile(t, `
base_prices:
  hvac_repair:
    shared: 28
    exclusive: 70
urgency_multipliers:
  emergency: 1.75
`)

	book, err := LoadPriceBook(path)
	if err != nil {
		t.Fatalf("LoadPriceBook: %v", err)
	}

	if got := book.Base[domain.ServiceHVACRepair]; got.Shared != 28 || got.Exclusive != 70 {
		t.Fatalf("expected overlaid hvac_repair prices 28/70, got %.2f/%.2f", got.Shared, got.Exclusive)
	}
	if got := book.UrgencyMultipliers[domain.UrgencyEmergency]; got != 1.75 {
		t.Fatalf("expected overlaid emergency multiplier 1.75, got %.2f", got)
	}

	// Untouched entries keep their defaults.
	if got := book.Base[domain.ServiceWaterHeater]; got.Shared != 40 || got.Exclusive != 100 {
		t.Fatalf("expected default water_heater prices 40/100, got %.2f/%.2f", got.Shared, got.Exclusive)
	}
	if got := book.UrgencyMultipliers[domain.UrgencyFlexible]; got != 0.8 {
		t.Fatalf("expected default flexible multiplier 0.8, got %.2f", got)
	}
}

func TestLoadPriceBookEmptyPathReturnsDefaults(t *testing.T) {
	book, err := LoadPriceBook("")
	if err != nil {
		t.Fatalf("LoadPriceBook: %v", err)
	}
	if len(book.Base) != len(domain.ServiceTypes) {
		t.Fatalf("expected %d service types, got %d", len(domain.ServiceTypes), len(book.Base))
	}
}

func TestLoadPriceBookRejectsUnknownServiceType(t *testing.T) {
	path := writePricebookFile(t, `
base_prices:
  roofing:
    shared: 10
    exclusive: 20
`)

	if _, err := LoadPriceBook(path); err == nil {
		t.Fatal("expected error for unknown service type")
	}
}

func TestLoadPriceBookRejectsNonPositivePrice(t *testing.T) {
	path := writePricebookFile(t, `
base_prices:
  hvac_repair:
    shared: 0
    exclusive: 70
`)

	if _, err := LoadPriceBook(path); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

func TestDefaultPriceBookCoversAllEnums(t *testing.T) {
	book := DefaultPriceBook()

	for _, serviceType := range domain.ServiceTypes {
		prices, ok := book.Base[serviceType]
		if !ok {
			t.Fatalf("missing base prices for %s", serviceType)
		}
		if prices.Shared <= 0 || prices.Exclusive <= 0 {
			t.Fatalf("non-positive base prices for %s", serviceType)
		}
		if prices.Exclusive <= prices.Shared {
			t.Fatalf("expected exclusive price above shared for %s", serviceType)
		}
	}
	for _, urgency := range domain.Urgencies {
		if book.UrgencyMultipliers[urgency] <= 0 {
			t.Fatalf("non-positive multiplier for %s", urgency)
		}
	}
}
