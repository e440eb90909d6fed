package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captureWriter struct {
	err  error
	msgs []kafkago.Message
	ctx  context.Context
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w.ctx = ctx
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestKafkaNotifier_Notify(t *testing.T) {
	writer := &captureWriter{}
	n := notification.NewKafkaNotifier(writer, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Notify(ctx, "emp-1", "payslip.approved", map[string]string{"payslip_number": "PS-202601-000001"})

	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)
	assert.NoError(t, writer.ctx.Err(), "write must not inherit caller cancellation")

	msg := writer.msgs[0]
	assert.Equal(t, events.PayrollNotificationTopic, msg.Topic)
	assert.Equal(t, []byte("emp-1"), msg.Key)

	var event events.PayrollNotificationEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "payslip.approved", event.Kind)
	assert.JSONEq(t, `{"payslip_number":"PS-202601-000001"}`, string(event.Payload))
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	n := notification.NewKafkaNotifier(&captureWriter{err: errors.New("broker down")}, zap.NewNop())

	err := n.Notify(context.Background(), "emp-1", "payslip.paid", nil)

	assert.ErrorContains(t, err, "broker down")
}

func TestLogNotifier_Notify(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := notification.NewLogNotifier(zap.New(core))

	assert.NoError(t, n.Notify(context.Background(), "emp-2", "payslip.generated", nil))
	assert.Equal(t, 1, logs.FilterField(zap.String("kind", "payslip.generated")).Len())
}
