package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type DocumentGenerator interface {
	GenerateDocument(ctx context.Context, id string) (payslip.PayslipResponse, error)
}

// ConsumePayslipDocumentRequested renders payslip PDFs for approved
// payslips. Messages that can never succeed are committed and dropped;
// other failures stay uncommitted for redelivery.
func ConsumePayslipDocumentRequested(
	ctx context.Context,
	reader MessageReader,
	generator DocumentGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_document")
	log.Info("payslip document consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip document consumer stopped")
				return
			}
			log.Error("fetch payslip document message failed", zap.Error(err))
			continue
		}

		var event events.PayslipDocumentRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip document event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		resp, err := generator.GenerateDocument(ctx, event.PayslipID)
		if err != nil {
			if isPermanent(err) {
				log.Warn("payslip document request dropped",
					zap.String("payslip_id", event.PayslipID),
					zap.String("code", apperror.CodeOf(err)),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("generate payslip document failed",
				zap.String("payslip_id", event.PayslipID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip document message failed", zap.Error(err))
			continue
		}

		url := ""
		if resp.DocumentURL != nil {
			url = *resp.DocumentURL
		}
		log.Info("payslip document generated",
			zap.String("payslip_id", event.PayslipID),
			zap.String("url", url),
		)
	}
}

func isPermanent(err error) bool {
	return apperror.HasCode(err, apperror.CodeNotFound) || apperror.HasCode(err, apperror.CodeInvalidInput)
}
