package bootstrap_test

import (
	"context"
	"testing"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	auditLogger := bootstrap.NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-42")
	auditLogger.Log(ctx, bootstrap.AuditLog{
		Action:     "PAYSLIP_APPROVED",
		ActorID:    "approver-1",
		EntityType: "payslip",
		EntityID:   "p-1",
		Message:    "payslip approved",
	})

	entries := logs.FilterMessage("audit event").All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "PAYSLIP_APPROVED", fields["action"])
	assert.Equal(t, "approver-1", fields["actor_id"])
	assert.Equal(t, "audit", entries[0].LoggerName)
}
