package events

import (
	"encoding/json"
	"time"
)

const PayrollNotificationTopic = "hr.payroll.notification.v1"

// PayrollNotificationEvent is consumed by the delivery service, which owns
// channels and templates.
type PayrollNotificationEvent struct {
	EventType   string          `json:"event_type"`
	RecipientID string          `json:"recipient_id"`
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
