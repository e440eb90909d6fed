package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// MessageWriter is the subset of *kafkago.Writer the notifier needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// KafkaNotifier publishes notifications to the delivery service topic.
type KafkaNotifier struct {
	writer MessageWriter
	logger *zap.Logger
	now    func() time.Time
}

func NewKafkaNotifier(writer MessageWriter, logger ...*zap.Logger) *KafkaNotifier {
	l := zap.L().Named("notification.kafka")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.kafka")
	}
	return &KafkaNotifier{writer: writer, logger: l, now: time.Now}
}

// Notify detaches from the caller's cancellation so a finished request does
// not abort delivery, but bounds the write.
func (n *KafkaNotifier) Notify(ctx context.Context, recipientID, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s notification: %w", kind, err)
	}

	value, err := json.Marshal(events.PayrollNotificationEvent{
		EventType:   "payroll.notification",
		RecipientID: recipientID,
		Kind:        kind,
		Payload:     raw,
		OccurredAt:  n.now().UTC(),
	})
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	err = n.writer.WriteMessages(writeCtx, kafkago.Message{
		Topic: events.PayrollNotificationTopic,
		Key:   []byte(recipientID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s notification: %w", kind, err)
	}

	n.logger.Debug("notification published", zap.String("kind", kind), zap.String("recipient_id", recipientID))
	return nil
}

// LogNotifier writes notifications to the log. Used when no broker is
// configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) *LogNotifier {
	l := zap.L().Named("notification.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.log")
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(ctx context.Context, recipientID, kind string, payload any) error {
	n.logger.Info("notification",
		zap.String("recipient_id", recipientID),
		zap.String("kind", kind),
		zap.Any("payload", payload),
	)
	return nil
}
