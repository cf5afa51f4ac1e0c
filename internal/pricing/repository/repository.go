package repository

import (
	"context"
	"errors"
	"fmt"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/routing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PricingRule is a persisted lead price row, optionally scoped to a state or
// metro area. Only default-scoped rows (both NULL) participate in routing.
type PricingRule struct {
	ID          uuid.UUID          `json:"id"`
	ServiceType domain.ServiceType `json:"serviceType"`
	Urgency     domain.Urgency     `json:"urgency"`
	IsExclusive bool               `json:"isExclusive"`
	State       *string            `json:"state,omitempty"`
	MetroArea   *string            `json:"metroArea,omitempty"`
	BasePrice   float64            `json:"basePrice"`
}

// Repo implements pricing rule persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new pricing rules repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo satisfies the routing engine's rule store.
var _ routing.RuleStore = (*Repo)(nil)

// FindDefault looks up the default-scoped rule for the combination. State and
// metro-specific overrides exist in the table for future use but are not
// selected here. A missing row is reported as found=false with a nil error.
func (r *Repo) FindDefault(ctx context.Context, serviceType domain.ServiceType, urgency domain.Urgency, isExclusive bool) (routing.Rule, bool, error) {
	query := `
		SELECT base_price
		FROM lead_prices
		WHERE service_type = $1 AND urgency = $2 AND is_exclusive = $3
			AND state IS NULL AND metro_area IS NULL`

	var basePrice float64
	err := r.pool.QueryRow(ctx, query, serviceType, urgency, isExclusive).Scan(&basePrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return routing.Rule{}, false, nil
		}
		return routing.Rule{}, false, fmt.Errorf("find default pricing rule: %w", err)
	}

	return routing.Rule{
		ServiceType: serviceType,
		Urgency:     urgency,
		IsExclusive: isExclusive,
		BasePrice:   basePrice,
	}, true, nil
}

// List returns all pricing rules ordered by service type and urgency.
func (r *Repo) List(ctx context.Context) ([]PricingRule, error) {
	query := `
		SELECT id, service_type, urgency, is_exclusive, state, metro_area, base_price
		FROM lead_prices
		ORDER BY service_type, urgency, is_exclusive`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	defer rows.Close()

	var results []PricingRule
	for rows.Next() {
		var rule PricingRule
		if err := rows.Scan(
			&rule.ID, &rule.ServiceType, &rule.Urgency, &rule.IsExclusive,
			&rule.State, &rule.MetroArea, &rule.BasePrice,
		); err != nil {
			return nil, fmt.Errorf("scan pricing rule: %w", err)
		}
		results = append(results, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules: %w", err)
	}

	return results, nil
}

// Upsert creates or replaces a rule for its (service, urgency, exclusivity,
// state, metro) scope and returns the stored row.
func (r *Repo) Upsert(ctx context.Context, rule PricingRule) (PricingRule, error) {
	query := `
		INSERT INTO lead_prices (service_type, urgency, is_exclusive, state, metro_area, base_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (service_type, urgency, is_exclusive, COALESCE(state, ''), COALESCE(metro_area, ''))
		DO UPDATE SET base_price = EXCLUDED.base_price
		RETURNING id, service_type, urgency, is_exclusive, state, metro_area, base_price`

	var stored PricingRule
	err := r.pool.QueryRow(ctx, query,
		rule.ServiceType, rule.Urgency, rule.IsExclusive, rule.State, rule.MetroArea, rule.BasePrice,
	).Scan(
		&stored.ID, &stored.ServiceType, &stored.Urgency, &stored.IsExclusive,
		&stored.State, &stored.MetroArea, &stored.BasePrice,
	)
	if err != nil {
		return PricingRule{}, fmt.Errorf("upsert pricing rule: %w", err)
	}

	return stored, nil
}
