package routing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Matcher returns the contractors eligible to receive a lead. Eligibility
// (service offered, ZIP coverage, active status, daily and monthly caps) is
// enforced by the implementation; the router treats the result as
// authoritative and does not re-check it. An empty slice is a valid result
// and is not an error. Callers must not rely on the order of the returned
// ids: a broadcast pass treats every matched contractor equally.
type Matcher interface {
	Match(ctx context.Context, leadID uuid.UUID) ([]uuid.UUID, error)
}

// SQLMatcher invokes the match_contractors_for_lead database function, which
// owns the eligibility query so that the matching rules can evolve without an
// application deploy.
type SQLMatcher struct {
	pool *pgxpool.Pool
}

// NewSQLMatcher creates a matcher backed by the database function.
func NewSQLMatcher(pool *pgxpool.Pool) *SQLMatcher {
	return &SQLMatcher{pool: pool}
}

// Match returns the ids of eligible contractors for the lead.
func (m *SQLMatcher) Match(ctx context.Context, leadID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := m.pool.Query(ctx, `SELECT id FROM match_contractors_for_lead($1)`, leadID)
	if err != nil {
		return nil, fmt.Errorf("match contractors: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan matched contractor: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matched contractors: %w", err)
	}

	return ids, nil
}

// Compile-time check that SQLMatcher implements Matcher.
var _ Matcher = (*SQLMatcher)(nil)
