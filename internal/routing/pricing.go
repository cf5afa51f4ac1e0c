package routing

import (
	"context"
	"fmt"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/logger"
)

// Rule is a persisted pricing override for one
// (service_type, urgency, is_exclusive) combination.
type Rule struct {
	ServiceType domain.ServiceType
	Urgency     domain.Urgency
	IsExclusive bool
	BasePrice   float64
}

// RuleStore looks up default-scoped pricing rules (state and metro unset).
// The three outcomes are distinct: rule found, no rule (found=false, err=nil),
// and lookup failure (err != nil).
type RuleStore interface {
	FindDefault(ctx context.Context, serviceType domain.ServiceType, urgency domain.Urgency, isExclusive bool) (Rule, bool, error)
}

// Resolver computes the price charged for one lead delivery. A persisted
// pricing rule wins; otherwise the static price book supplies a fallback.
// Resolve always produces a positive price and never returns an error.
type Resolver struct {
	rules RuleStore
	book  PriceBook
	log   *logger.Logger
}

// NewResolver creates a pricing resolver backed by the given rule store and
// static price book.
func NewResolver(rules RuleStore, book PriceBook, log *logger.Logger) *Resolver {
	return &Resolver{rules: rules, book: book, log: log}
}

// Resolve returns the price for a delivery of the given service type,
// urgency, and exclusivity tier.
//
// A persisted rule's base price is returned verbatim: the stored value
// already bakes in urgency and exclusivity. The urgency multiplier applies
// only to the static fallback. A failed rule lookup is a soft failure: it is
// logged and the fallback is used, so pricing can never abort a routing pass.
//
// Callers must hand in validated enums; unknown values indicate a bug
// upstream and panic rather than silently pricing the lead wrong.
func (r *Resolver) Resolve(ctx context.Context, serviceType domain.ServiceType, urgency domain.Urgency, isExclusive bool) float64 {
	base, ok := r.book.Base[serviceType]
	if !ok {
		panic(fmt.Sprintf("routing: unpriceable service type %q", serviceType))
	}
	multiplier, ok := r.book.UrgencyMultipliers[urgency]
	if !ok {
		panic(fmt.Sprintf("routing: unknown urgency %q", urgency))
	}

	rule, found, err := r.rules.FindDefault(ctx, serviceType, urgency, isExclusive)
	if err != nil {
		r.log.Warn("pricing rule lookup failed, using fallback",
			"service_type", string(serviceType),
			"urgency", string(urgency),
			"error", err)
	} else if found && rule.BasePrice > 0 {
		return rule.BasePrice
	}

	fallback := base.Shared
	if isExclusive {
		fallback = base.Exclusive
	}
	return fallback * multiplier
}
