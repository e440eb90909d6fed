package events

import "time"

const PayslipDocumentRequestedTopic = "hr.payroll.payslip.document.requested.v1"

type PayslipDocumentRequestedEvent struct {
	EventType   string    `json:"event_type"`
	PayslipID   string    `json:"payslip_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
