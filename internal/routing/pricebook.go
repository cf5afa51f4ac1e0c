package routing

import (
	"fmt"
	"os"

	"leadmarket_backend/internal/leads/domain"

	"gopkg.in/yaml.v3"
)

// TierPrices holds the shared/exclusive base prices for one service type.
type TierPrices struct {
	Shared    float64 `yaml:"shared"`
	Exclusive float64 `yaml:"exclusive"`
}

// PriceBook is the static fallback pricing configuration: per-service base
// prices and per-urgency multipliers. It is immutable after construction and
// injected into the pricing resolver, never read as global state.
type PriceBook struct {
	Base               map[domain.ServiceType]TierPrices `yaml:"base_prices"`
	UrgencyMultipliers map[domain.Urgency]float64        `yaml:"urgency_multipliers"`
}

// DefaultPriceBook returns the built-in price book. Values mirror the
// marketplace's launch pricing: repairs are priced below installs and
// replacements, emergencies carry a premium.
func DefaultPriceBook() PriceBook {
	return PriceBook{
		Base: map[domain.ServiceType]TierPrices{
			domain.ServiceHVACRepair:        {Shared: 25, Exclusive: 60},
			domain.ServiceHVACInstall:       {Shared: 45, Exclusive: 120},
			domain.ServiceHVACMaintenance:   {Shared: 15, Exclusive: 35},
			domain.ServicePlumbingEmergency: {Shared: 30, Exclusive: 75},
			domain.ServicePlumbingRepair:    {Shared: 20, Exclusive: 50},
			domain.ServicePlumbingInstall:   {Shared: 35, Exclusive: 85},
			domain.ServiceWaterHeater:       {Shared: 40, Exclusive: 100},
		},
		UrgencyMultipliers: map[domain.Urgency]float64{
			domain.UrgencyEmergency: 1.5,
			domain.UrgencyToday:     1.25,
			domain.UrgencyThisWeek:  1.0,
			domain.UrgencyFlexible:  0.8,
		},
	}
}

// LoadPriceBook returns the default price book, overlaid with any entries
// from the YAML file at path. An empty path returns the defaults unchanged.
func LoadPriceBook(path string) (PriceBook, error) {
	book := DefaultPriceBook()
	if path == "" {
		return book, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PriceBook{}, fmt.Errorf("read pricebook file: %w", err)
	}

	var overlay PriceBook
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return PriceBook{}, fmt.Errorf("parse pricebook file: %w", err)
	}

	for serviceType, prices := range overlay.Base {
		if !serviceType.Valid() {
			return PriceBook{}, fmt.Errorf("pricebook file: unknown service type %q", serviceType)
		}
		if prices.Shared <= 0 || prices.Exclusive <= 0 {
			return PriceBook{}, fmt.Errorf("pricebook file: non-positive price for %q", serviceType)
		}
		book.Base[serviceType] = prices
	}

	for urgency, multiplier := range overlay.UrgencyMultipliers {
		if !urgency.Valid() {
			return PriceBook{}, fmt.Errorf("pricebook file: unknown urgency %q", urgency)
		}
		if multiplier <= 0 {
			return PriceBook{}, fmt.Errorf("pricebook file: non-positive multiplier for %q", urgency)
		}
		book.UrgencyMultipliers[urgency] = multiplier
	}

	return book, nil
}
