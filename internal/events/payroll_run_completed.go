package events

import "time"

const PayrollRunCompletedTopic = "payroll.run.completed.v1"

// PayrollRunCompletedEvent is published through the outbox once a run is
// processed. The finance consumer settles loan and advance balances from it.
type PayrollRunCompletedEvent struct {
	EventType      string    `json:"event_type"`
	RunID          string    `json:"run_id"`
	CompanyID      string    `json:"company_id"`
	PeriodID       string    `json:"period_id"`
	TotalEmployees int       `json:"total_employees"`
	TotalNetAmount float64   `json:"total_net_amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}
