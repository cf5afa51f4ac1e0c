package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadmarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contractorNotFoundMessage = "contractor not found"

// Status tracks a contractor account through its lifecycle.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusChurned Status = "churned"
)

// Valid reports whether the status is one of the supported values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusPaused, StatusChurned:
		return true
	}
	return false
}

// Contractor is a service provider eligible to receive leads.
type Contractor struct {
	ID                uuid.UUID `json:"id"`
	CompanyName       string    `json:"companyName"`
	ContactName       string    `json:"contactName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	NotificationEmail *string   `json:"notificationEmail,omitempty"`
	NotificationPhone *string   `json:"notificationPhone,omitempty"`
	Services          []string  `json:"services"`
	ServiceZips       []string  `json:"serviceZips"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Zip               string    `json:"zip"`
	Status            Status    `json:"status"`
	MaxLeadsPerDay    int       `json:"maxLeadsPerDay"`
	MaxLeadsPerMonth  *int      `json:"maxLeadsPerMonth,omitempty"`
	CreatedAt         string    `json:"createdAt"`
	UpdatedAt         string    `json:"updatedAt"`
}

// NotificationTarget is the slim projection used when alerting contractors
// about a new delivery.
type NotificationTarget struct {
	ID          uuid.UUID
	CompanyName string
	ContactName string
	Email       string
}

// CreateParams are the attributes supplied when onboarding a contractor.
type CreateParams struct {
	CompanyName       string
	ContactName       string
	Email             string
	Phone             string
	NotificationEmail *string
	NotificationPhone *string
	Services          []string
	ServiceZips       []string
	City              string
	State             string
	Zip               string
	MaxLeadsPerDay    int
	MaxLeadsPerMonth  *int
}

// Repo implements contractor persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contractors repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const contractorColumns = `
	id, company_name, contact_name, email, phone, notification_email, notification_phone,
	services, service_zips, city, state, zip, status,
	max_leads_per_day, max_leads_per_month, created_at, updated_at`

// Create onboards a contractor in status pending.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Contractor, error) {
	query := `
		INSERT INTO contractors (
			company_name, contact_name, email, phone, notification_email, notification_phone,
			services, service_zips, city, state, zip, status, max_leads_per_day, max_leads_per_month
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending', $12, $13)
		RETURNING` + contractorColumns

	row := r.pool.QueryRow(ctx, query,
		params.CompanyName, params.ContactName, params.Email, params.Phone,
		params.NotificationEmail, params.NotificationPhone, params.Services,
		params.ServiceZips, params.City, params.State, params.Zip,
		params.MaxLeadsPerDay, params.MaxLeadsPerMonth,
	)

	contractor, err := scanContractor(row)
	if err != nil {
		return Contractor{}, fmt.Errorf("create contractor: %w", err)
	}
	return contractor, nil
}

// GetByID retrieves a contractor by its id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Contractor, error) {
	query := `SELECT` + contractorColumns + ` FROM contractors WHERE id = $1`

	contractor, err := scanContractor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contractor{}, apperr.NotFound(contractorNotFoundMessage)
		}
		return Contractor{}, fmt.Errorf("get contractor by id: %w", err)
	}
	return contractor, nil
}

// List returns all contractors ordered by company name.
func (r *Repo) List(ctx context.Context) ([]Contractor, error) {
	query := `SELECT` + contractorColumns + ` FROM contractors ORDER BY company_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contractors: %w", err)
	}
	defer rows.Close()

	var results []Contractor
	for rows.Next() {
		contractor, err := scanContractor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		results = append(results, contractor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contractors: %w", err)
	}

	return results, nil
}

// SetStatus updates a contractor's lifecycle status.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE contractors SET status = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set contractor status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(contractorNotFoundMessage)
	}
	return nil
}

// GetNotificationTargets returns alerting projections for the given
// contractors, preferring the dedicated notification email over the account
// email.
func (r *Repo) GetNotificationTargets(ctx context.Context, ids []uuid.UUID) ([]NotificationTarget, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, company_name, contact_name, COALESCE(notification_email, email)
		FROM contractors
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get notification targets: %w", err)
	}
	defer rows.Close()

	var targets []NotificationTarget
	for rows.Next() {
		var target NotificationTarget
		if err := rows.Scan(&target.ID, &target.CompanyName, &target.ContactName, &target.Email); err != nil {
			return nil, fmt.Errorf("scan notification target: %w", err)
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification targets: %w", err)
	}

	return targets, nil
}

func scanContractor(row pgx.Row) (Contractor, error) {
	var contractor Contractor
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&contractor.ID, &contractor.CompanyName, &contractor.ContactName,
		&contractor.Email, &contractor.Phone, &contractor.NotificationEmail,
		&contractor.NotificationPhone, &contractor.Services, &contractor.ServiceZips,
		&contractor.City, &contractor.State, &contractor.Zip, &contractor.Status,
		&contractor.MaxLeadsPerDay, &contractor.MaxLeadsPerMonth,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Contractor{}, err
	}

	contractor.CreatedAt = createdAt.Format(time.RFC3339)
	contractor.UpdatedAt = updatedAt.Format(time.RFC3339)
	return contractor, nil
}
