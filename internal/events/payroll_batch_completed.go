package events

import "time"

const PayrollBatchCompletedTopic = "hr.payroll.batch.completed.v1"

type PayrollBatchCompletedEvent struct {
	EventType          string    `json:"event_type"`
	BatchID            string    `json:"batch_id"`
	PeriodStart        string    `json:"period_start"`
	PeriodEnd          string    `json:"period_end"`
	Status             string    `json:"status"`
	TotalEmployees     int       `json:"total_employees"`
	GeneratedEmployees int       `json:"generated_employees"`
	SkippedEmployees   int       `json:"skipped_employees"`
	FailedEmployees    int       `json:"failed_employees"`
	CancelledEmployees int       `json:"cancelled_employees"`
	TotalGross         string    `json:"total_gross"`
	TotalDeductions    string    `json:"total_deductions"`
	TotalNet           string    `json:"total_net"`
	RequestedBy        string    `json:"requested_by,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}
