package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deliveryNotFoundMessage = "delivery not found"

// uniqueViolation is the PostgreSQL error code raised by the
// (lead_id, contractor_id) uniqueness constraint when a racing retry tries
// to deliver the same lead to the same contractor twice.
const uniqueViolation = "23505"

// Outcome tracks what the contractor did with a delivered lead.
type Outcome string

const (
	OutcomePending    Outcome = "pending"
	OutcomeViewed     Outcome = "viewed"
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeNoResponse Outcome = "no_response"
)

// Valid reports whether the outcome is one of the supported values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePending, OutcomeViewed, OutcomeAccepted, OutcomeRejected, OutcomeNoResponse:
		return true
	}
	return false
}

// Delivery is the record of one lead being sent to one contractor.
type Delivery struct {
	ID           uuid.UUID  `json:"id"`
	LeadID       uuid.UUID  `json:"leadId"`
	ContractorID uuid.UUID  `json:"contractorId"`
	Price        float64    `json:"price"`
	IsExclusive  bool       `json:"isExclusive"`
	Outcome      Outcome    `json:"outcome"`
	SentAt       string     `json:"sentAt"`
	RespondedAt  *string    `json:"respondedAt,omitempty"`
	Billed       bool       `json:"billed"`
	BilledAt     *string    `json:"billedAt,omitempty"`
}

// Repo implements delivery persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new deliveries repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo satisfies the routing engine's delivery port.
var _ routing.DeliveryWriter = (*Repo)(nil)

// CreateBatch inserts all deliveries in a single transaction and returns the
// generated ids in insertion order. The transaction guarantees the routing
// engine's all-or-nothing contract: on any failure the whole batch rolls
// back and no partial rows remain. A uniqueness violation on
// (lead_id, contractor_id) surfaces as a conflict error so a racing retry
// fails safe instead of double-delivering.
func (r *Repo) CreateBatch(ctx context.Context, deliveries []routing.NewDelivery) ([]uuid.UUID, error) {
	if len(deliveries) == 0 {
		return []uuid.UUID{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delivery batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO lead_deliveries (lead_id, contractor_id, price, is_exclusive, outcome, sent_at)
		VALUES ($1, $2, $3, $4, 'pending', $5)
		RETURNING id`

	ids := make([]uuid.UUID, 0, len(deliveries))
	for _, delivery := range deliveries {
		var id uuid.UUID
		err := tx.QueryRow(ctx, query,
			delivery.LeadID, delivery.ContractorID, delivery.Price,
			delivery.IsExclusive, delivery.SentAt,
		).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return nil, apperr.Wrap(apperr.KindConflict, "lead already delivered to contractor", err)
			}
			return nil, fmt.Errorf("insert delivery: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delivery batch: %w", err)
	}

	return ids, nil
}

// ListByLead returns all deliveries for a lead, oldest first.
func (r *Repo) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Delivery, error) {
	return r.list(ctx, `WHERE lead_id = $1`, leadID)
}

// ListByContractor returns all deliveries sent to a contractor, newest first.
func (r *Repo) ListByContractor(ctx context.Context, contractorID uuid.UUID) ([]Delivery, error) {
	query := `
		SELECT id, lead_id, contractor_id, price, is_exclusive, outcome, sent_at, responded_at, billed, billed_at
		FROM lead_deliveries
		WHERE contractor_id = $1
		ORDER BY sent_at DESC`

	rows, err := r.pool.Query(ctx, query, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries by contractor: %w", err)
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

// CountByLead returns the number of delivery rows for a lead.
func (r *Repo) CountByLead(ctx context.Context, leadID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lead_deliveries WHERE lead_id = $1`, leadID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count deliveries: %w", err)
	}
	return count, nil
}

// SetOutcome records the contractor's response to a delivered lead.
func (r *Repo) SetOutcome(ctx context.Context, deliveryID uuid.UUID, outcome Outcome) (Delivery, error) {
	query := `
		UPDATE lead_deliveries
		SET outcome = $2, responded_at = now()
		WHERE id = $1
		RETURNING id, lead_id, contractor_id, price, is_exclusive, outcome, sent_at, responded_at, billed, billed_at`

	delivery, err := scanDelivery(r.pool.QueryRow(ctx, query, deliveryID, outcome))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Delivery{}, apperr.NotFound(deliveryNotFoundMessage)
		}
		return Delivery{}, fmt.Errorf("set delivery outcome: %w", err)
	}
	return delivery, nil
}

func (r *Repo) list(ctx context.Context, where string, args ...interface{}) ([]Delivery, error) {
	query := `
		SELECT id, lead_id, contractor_id, price, is_exclusive, outcome, sent_at, responded_at, billed, billed_at
		FROM lead_deliveries ` + where + ` ORDER BY sent_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

func scanDeliveries(rows pgx.Rows) ([]Delivery, error) {
	var results []Delivery
	for rows.Next() {
		delivery, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		results = append(results, delivery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return results, nil
}

func scanDelivery(row pgx.Row) (Delivery, error) {
	var delivery Delivery
	var sentAt time.Time
	var respondedAt, billedAt *time.Time

	err := row.Scan(
		&delivery.ID, &delivery.LeadID, &delivery.ContractorID, &delivery.Price,
		&delivery.IsExclusive, &delivery.Outcome, &sentAt, &respondedAt,
		&delivery.Billed, &billedAt,
	)
	if err != nil {
		return Delivery{}, err
	}

	delivery.SentAt = sentAt.Format(time.RFC3339)
	if respondedAt != nil {
		formatted := respondedAt.Format(time.RFC3339)
		delivery.RespondedAt = &formatted
	}
	if billedAt != nil {
		formatted := billedAt.Format(time.RFC3339)
		delivery.BilledAt = &formatted
	}
	return delivery, nil
}
