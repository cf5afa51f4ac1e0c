package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/routing"
	"leadmarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadNotFoundMessage = "lead not found"

// Lead is a homeowner service request.
type Lead struct {
	ID           uuid.UUID           `json:"id"`
	ServiceType  domain.ServiceType  `json:"serviceType"`
	Urgency      domain.Urgency      `json:"urgency"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Phone        string              `json:"phone"`
	Email        *string             `json:"email,omitempty"`
	Address      *string             `json:"address,omitempty"`
	City         *string             `json:"city,omitempty"`
	State        string              `json:"state"`
	Zip          string              `json:"zip"`
	PropertyType domain.PropertyType `json:"propertyType"`
	Description  *string             `json:"description,omitempty"`
	Source       domain.LeadSource   `json:"source"`
	SourceURL    *string             `json:"sourceUrl,omitempty"`
	UTMSource    *string             `json:"utmSource,omitempty"`
	UTMMedium    *string             `json:"utmMedium,omitempty"`
	UTMCampaign  *string             `json:"utmCampaign,omitempty"`
	Status       domain.LeadStatus   `json:"status"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt"`
}

// CreateParams are the attributes supplied when inserting a new lead.
type CreateParams struct {
	ServiceType  domain.ServiceType
	Urgency      domain.Urgency
	FirstName    string
	LastName     string
	Phone        string
	Email        *string
	Address      *string
	City         *string
	State        string
	Zip          string
	PropertyType domain.PropertyType
	Description  *string
	Source       domain.LeadSource
	SourceURL    *string
	UTMSource    *string
	UTMMedium    *string
	UTMCampaign  *string
}

// ListParams filter the admin lead listing.
type ListParams struct {
	Status      *domain.LeadStatus
	ServiceType *domain.ServiceType
	Limit       int
	Offset      int
}

// Repo implements lead persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time checks that Repo satisfies the routing engine's read/write ports.
var (
	_ routing.LeadReader   = (*Repo)(nil)
	_ routing.StatusWriter = (*Repo)(nil)
)

const leadColumns = `
	id, service_type, urgency, first_name, last_name, phone, email,
	address, city, state, zip, property_type, description,
	source, source_url, utm_source, utm_medium, utm_campaign,
	status, created_at, updated_at`

// Create inserts a lead in status new and returns the stored row.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (
			service_type, urgency, first_name, last_name, phone, email,
			address, city, state, zip, property_type, description,
			source, source_url, utm_source, utm_medium, utm_campaign, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 'new')
		RETURNING` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.ServiceType, params.Urgency, params.FirstName, params.LastName,
		params.Phone, params.Email, params.Address, params.City, params.State,
		params.Zip, params.PropertyType, params.Description, params.Source,
		params.SourceURL, params.UTMSource, params.UTMMedium, params.UTMCampaign,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByID retrieves a lead by its id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// GetPricingInputs reads only the attributes the routing engine prices on.
func (r *Repo) GetPricingInputs(ctx context.Context, leadID uuid.UUID) (routing.PricingInputs, error) {
	query := `SELECT service_type, urgency FROM leads WHERE id = $1`

	var inputs routing.PricingInputs
	err := r.pool.QueryRow(ctx, query, leadID).Scan(&inputs.ServiceType, &inputs.Urgency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return routing.PricingInputs{}, apperr.NotFound(leadNotFoundMessage)
		}
		return routing.PricingInputs{}, fmt.Errorf("get lead pricing inputs: %w", err)
	}
	return inputs, nil
}

// MarkSent transitions the lead to sent after delivery creation.
func (r *Repo) MarkSent(ctx context.Context, leadID uuid.UUID) error {
	return r.UpdateStatus(ctx, leadID, domain.LeadStatusSent)
}

// UpdateStatus sets the lead's status.
func (r *Repo) UpdateStatus(ctx context.Context, leadID uuid.UUID, status domain.LeadStatus) error {
	query := `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, leadID, status)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// List retrieves leads for the admin dashboard, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}
	var serviceParam interface{}
	if params.ServiceType != nil {
		serviceParam = *params.ServiceType
	}

	countQuery := `
		SELECT COUNT(*)
		FROM leads
		WHERE ($1::lead_status IS NULL OR status = $1)
			AND ($2::service_type IS NULL OR service_type = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, statusParam, serviceParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `
		SELECT` + leadColumns + `
		FROM leads
		WHERE ($1::lead_status IS NULL OR status = $1)
			AND ($2::service_type IS NULL OR service_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, statusParam, serviceParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var results []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		results = append(results, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}

	return results, total, nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&lead.ID, &lead.ServiceType, &lead.Urgency, &lead.FirstName, &lead.LastName,
		&lead.Phone, &lead.Email, &lead.Address, &lead.City, &lead.State, &lead.Zip,
		&lead.PropertyType, &lead.Description, &lead.Source, &lead.SourceURL,
		&lead.UTMSource, &lead.UTMMedium, &lead.UTMCampaign, &lead.Status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	lead.CreatedAt = createdAt.Format(time.RFC3339)
	lead.UpdatedAt = updatedAt.Format(time.RFC3339)
	return lead, nil
}
