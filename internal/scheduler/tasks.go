package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadConfirmation = "leads.confirmation"

const TaskContractorAlerts = "routing.contractor_alerts"

// LeadConfirmationPayload identifies the lead whose homeowner should get a
// confirmation email.
type LeadConfirmationPayload struct {
	LeadID string `json:"leadId"`
}

// ContractorAlertsPayload identifies a routed lead whose matched contractors
// should be alerted. The worker resolves the recipients from the delivery
// rows so a retried task always alerts the current set.
type ContractorAlertsPayload struct {
	LeadID string  `json:"leadId"`
	Price  float64 `json:"price"`
}

func NewLeadConfirmationTask(payload LeadConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadConfirmation, data), nil
}

func ParseLeadConfirmationPayload(task *asynq.Task) (LeadConfirmationPayload, error) {
	var payload LeadConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadConfirmationPayload{}, err
	}
	return payload, nil
}

func NewContractorAlertsTask(payload ContractorAlertsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContractorAlerts, data), nil
}

func ParseContractorAlertsPayload(task *asynq.Task) (ContractorAlertsPayload, error) {
	var payload ContractorAlertsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContractorAlertsPayload{}, err
	}
	return payload, nil
}
