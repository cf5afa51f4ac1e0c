package scheduler

import (
	"context"
	"fmt"
	"strings"

	contractorrepo "leadmarket_backend/internal/contractors/repository"
	deliveryrepo "leadmarket_backend/internal/deliveries/repository"
	"leadmarket_backend/internal/email"
	leadrepo "leadmarket_backend/internal/leads/repository"
	"leadmarket_backend/platform/config"
	"leadmarket_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Contractor alerts for one lead go out concurrently, capped so a lead
// matched to many contractors cannot monopolize SMTP connections.
const alertFanoutLimit = 8

// Worker consumes notification tasks from Redis and delivers email.
type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	leads       *leadrepo.Repo
	contractors *contractorrepo.Repo
	deliveries  *deliveryrepo.Repo
	sender      email.Sender
	baseURL     string
	log         *logger.Logger
}

// WorkerConfig combines the config interfaces the worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.NotificationConfig
}

// NewWorker creates the asynq server and registers task handlers.
func NewWorker(cfg WorkerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		leads:       leadrepo.New(pool),
		contractors: contractorrepo.New(pool),
		deliveries:  deliveryrepo.New(pool),
		sender:      sender,
		baseURL:     strings.TrimRight(cfg.GetAppBaseURL(), "/"),
		log:         log,
	}

	mux.HandleFunc(TaskLeadConfirmation, w.handleLeadConfirmation)
	mux.HandleFunc(TaskContractorAlerts, w.handleContractorAlerts)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadConfirmation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadConfirmationPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Email == nil || *lead.Email == "" {
		return nil
	}

	name := strings.TrimSpace(lead.FirstName)
	if name == "" {
		name = "there"
	}

	if err := w.sender.SendLeadConfirmationEmail(ctx, *lead.Email, name, lead.ServiceType.Label()); err != nil {
		w.log.EmailEvent("lead_confirmation", *lead.Email, err)
		return err
	}

	w.log.EmailEvent("lead_confirmation", *lead.Email, nil)
	return nil
}

func (w *Worker) handleContractorAlerts(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseContractorAlertsPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		return err
	}

	deliveries, err := w.deliveries.ListByLead(ctx, leadID)
	if err != nil {
		return err
	}
	if len(deliveries) == 0 {
		return nil
	}

	contractorIDs := make([]uuid.UUID, 0, len(deliveries))
	for _, d := range deliveries {
		contractorIDs = append(contractorIDs, d.ContractorID)
	}

	targets, err := w.contractors.GetNotificationTargets(ctx, contractorIDs)
	if err != nil {
		return err
	}

	city := ""
	if lead.City != nil {
		city = *lead.City
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(alertFanoutLimit)

	for _, target := range targets {
		alert := email.ContractorAlert{
			CompanyName:  target.CompanyName,
			ServiceLabel: lead.ServiceType.Label(),
			Urgency:      string(lead.Urgency),
			City:         city,
			Zip:          lead.Zip,
			Price:        payload.Price,
			DashboardURL: w.baseURL + "/dashboard/leads/" + lead.ID.String(),
		}
		toEmail := target.Email

		group.Go(func() error {
			err := w.sender.SendContractorAlertEmail(groupCtx, toEmail, alert)
			w.log.EmailEvent("contractor_alert", toEmail, err)
			return err
		})
	}

	return group.Wait()
}
