package events

import "time"

const PayslipGeneratedTopic = "hr.payroll.payslip.generated.v1"

type PayslipGeneratedEvent struct {
	EventType     string    `json:"event_type"`
	PayslipID     string    `json:"payslip_id"`
	PayslipNumber string    `json:"payslip_number"`
	EmployeeID    string    `json:"employee_id"`
	BatchID       string    `json:"batch_id,omitempty"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`
	Currency      string    `json:"currency"`
	GrossEarnings string    `json:"gross_earnings"`
	NetPay        string    `json:"net_pay"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
