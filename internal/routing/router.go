// Package routing implements the lead routing and pricing engine: it selects
// the eligible contractor set for a lead, prices the delivery, persists one
// delivery record per contractor as an atomic batch, and marks the lead sent.
//
// Routing outcomes are returned as data, never as errors: the lead intake path
// must stay decoupled from routing health, so a homeowner's submission
// succeeds even when routing does not.
package routing

import (
	"context"
	"time"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/logger"

	"github.com/google/uuid"
)

// NoMatchesMessage is reported on a successful routing pass that matched no
// contractors. It is informational, not an error condition.
const NoMatchesMessage = "No matching contractors found"

const leadNotFoundMessage = "Lead not found"

// PricingInputs are the lead attributes the resolver prices on.
type PricingInputs struct {
	ServiceType domain.ServiceType
	Urgency     domain.Urgency
}

// LeadReader reads the pricing inputs for a lead.
type LeadReader interface {
	GetPricingInputs(ctx context.Context, leadID uuid.UUID) (PricingInputs, error)
}

// NewDelivery is one pending delivery row to be persisted.
type NewDelivery struct {
	LeadID       uuid.UUID
	ContractorID uuid.UUID
	Price        float64
	IsExclusive  bool
	SentAt       time.Time
}

// DeliveryWriter persists a delivery batch. The batch is all-or-nothing: on
// error no rows may remain behind.
type DeliveryWriter interface {
	CreateBatch(ctx context.Context, deliveries []NewDelivery) ([]uuid.UUID, error)
}

// StatusWriter transitions a lead to sent.
type StatusWriter interface {
	MarkSent(ctx context.Context, leadID uuid.UUID) error
}

// Result is the outcome of one routing pass, consumed by the caller for
// logging and notification decisions only.
type Result struct {
	Success            bool        `json:"success"`
	MatchedContractors int         `json:"matchedContractors"`
	DeliveryIDs        []uuid.UUID `json:"deliveryIds"`
	Price              float64     `json:"price,omitempty"`
	Error              string      `json:"error,omitempty"`
}

func failure(matched int, cause string) Result {
	return Result{
		Success:            false,
		MatchedContractors: matched,
		DeliveryIDs:        []uuid.UUID{},
		Error:              cause,
	}
}

// Router orchestrates a routing pass over its collaborators. It is safe for
// concurrent use across distinct leads; racing passes over the same lead are
// fenced by the delivery store's (lead_id, contractor_id) uniqueness
// constraint rather than by in-process locking.
type Router struct {
	matcher    Matcher
	resolver   *Resolver
	leads      LeadReader
	deliveries DeliveryWriter
	status     StatusWriter
	log        *logger.Logger
	now        func() time.Time
}

// NewRouter creates a lead router.
func NewRouter(matcher Matcher, resolver *Resolver, leads LeadReader, deliveries DeliveryWriter, status StatusWriter, log *logger.Logger) *Router {
	return &Router{
		matcher:    matcher,
		resolver:   resolver,
		leads:      leads,
		deliveries: deliveries,
		status:     status,
		log:        log,
		now:        time.Now,
	}
}

// Route runs the full routing pass for a lead: match, price, persist
// deliveries, mark sent.
//
// Failure policy is asymmetric by step. Matching and the lead read are pure
// reads, so their failures abort with nothing to undo. The delivery batch is
// the single state-creating step and is atomic. The status update afterwards
// is best-effort: the delivery rows, not the status column, are the source of
// truth that the lead went out, so a failed update is logged and the pass
// still succeeds.
func (r *Router) Route(ctx context.Context, leadID uuid.UUID) Result {
	contractorIDs, err := r.matcher.Match(ctx, leadID)
	if err != nil {
		r.log.RoutingFailure(leadID.String(), err.Error())
		return failure(0, err.Error())
	}

	if len(contractorIDs) == 0 {
		r.log.Info("no matching contractors for lead", "lead_id", leadID.String())
		return Result{
			Success:            true,
			MatchedContractors: 0,
			DeliveryIDs:        []uuid.UUID{},
			Error:              NoMatchesMessage,
		}
	}

	inputs, err := r.leads.GetPricingInputs(ctx, leadID)
	if err != nil {
		r.log.RoutingFailure(leadID.String(), err.Error())
		return failure(0, leadNotFoundMessage)
	}

	// Broadcast passes always produce shared deliveries. Exclusive routing
	// exists only in the pricing tables; no code path constructs it yet.
	price := r.resolver.Resolve(ctx, inputs.ServiceType, inputs.Urgency, false)

	sentAt := r.now()
	batch := make([]NewDelivery, 0, len(contractorIDs))
	for _, contractorID := range contractorIDs {
		batch = append(batch, NewDelivery{
			LeadID:       leadID,
			ContractorID: contractorID,
			Price:        price,
			IsExclusive:  false,
			SentAt:       sentAt,
		})
	}

	deliveryIDs, err := r.deliveries.CreateBatch(ctx, batch)
	if err != nil {
		// The match count is known and reported even though nothing persisted.
		r.log.RoutingFailure(leadID.String(), err.Error())
		return failure(len(contractorIDs), err.Error())
	}

	if err := r.status.MarkSent(ctx, leadID); err != nil {
		// Deliveries exist; a stale status is a recoverable inconsistency.
		r.log.Error("failed to mark lead sent after delivery creation",
			"lead_id", leadID.String(),
			"error", err)
	}

	r.log.RoutingComplete(leadID.String(), len(contractorIDs), len(deliveryIDs))

	return Result{
		Success:            true,
		MatchedContractors: len(contractorIDs),
		DeliveryIDs:        deliveryIDs,
		Price:              price,
	}
}
