package payrollbatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollbatcherrors "go-payroll/internal/payrollbatch/errors"
	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxConcurrency = 64
	batchLockTTL   = 30 * time.Minute
)

// releaseLockScript deletes the lock only while it still holds the caller's
// batch id. A lock that expired and was taken by a later batch survives.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func batchLockKey(start, end time.Time) string {
	return fmt.Sprintf("payroll:batch:lock:%s:%s", start.Format(dateLayout), end.Format(dateLayout))
}

type runPlan struct {
	batchID     uuid.UUID
	periodStart time.Time
	periodEnd   time.Time
	paymentDate *time.Time
	filter      payslip.EmployeeFilter
	submit      bool
	concurrency int
	actorID     *uuid.UUID
	requestID   string
}

func (s *service) Run(ctx context.Context, actorID string, req RunBatchRequest) (BatchResponse, error) {
	plan, err := s.plan(ctx, actorID, req)
	if err != nil {
		return BatchResponse{}, err
	}

	logger := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("batch_id", plan.batchID.String()),
		zap.String("period_start", plan.periodStart.Format(dateLayout)),
		zap.String("period_end", plan.periodEnd.Format(dateLayout)),
	)

	release, err := s.acquirePeriodLock(ctx, plan)
	if err != nil {
		return BatchResponse{}, err
	}
	defer release()

	employees, err := s.directory.ListEmployees(ctx, plan.filter)
	if err != nil {
		return BatchResponse{}, err
	}

	batch := PayrollBatch{
		ID:             plan.batchID,
		PeriodStart:    plan.periodStart,
		PeriodEnd:      plan.periodEnd,
		Status:         StatusRunning,
		TotalEmployees: len(employees),
		StartedAt:      s.now(),
		RequestedBy:    plan.actorID,
	}
	if err := s.repo.Create(ctx, &batch); err != nil {
		return BatchResponse{}, err
	}

	logger.Info("payroll batch started",
		zap.Int("employees", len(employees)),
		zap.Int("concurrency", plan.concurrency),
	)

	outcomes := s.process(ctx, plan, employees, logger)
	cancelled := ctx.Err() != nil

	summarize(&batch, outcomes, cancelled)
	finishedAt := s.now()
	batch.FinishedAt = &finishedAt

	// the batch record is written even when the caller went away
	if err := s.persist(context.WithoutCancel(ctx), plan, &batch, outcomes); err != nil {
		logger.Error("persist payroll batch failed", zap.Error(err))
		return BatchResponse{}, err
	}
	batch.Outcomes = outcomes

	logger.Info("payroll batch finished",
		zap.String("status", string(batch.Status)),
		zap.Int("generated", batch.GeneratedEmployees),
		zap.Int("skipped", batch.SkippedEmployees),
		zap.Int("failed", batch.FailedEmployees),
		zap.Int("cancelled", batch.CancelledEmployees),
		zap.String("total_net", batch.TotalNet.StringFixed(2)),
	)
	return mapToResponse(batch), nil
}

func (s *service) plan(ctx context.Context, actorID string, req RunBatchRequest) (runPlan, error) {
	start, end, err := payslip.ParsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		if errors.Is(err, paysliperrors.ErrInvalidPeriod) {
			return runPlan{}, payrollbatcherrors.ErrInvalidPeriod
		}
		return runPlan{}, payrollbatcherrors.ErrInvalidDateFormat
	}

	plan := runPlan{
		batchID:     uuid.New(),
		periodStart: start,
		periodEnd:   end,
		submit:      req.Submit,
		concurrency: req.Concurrency,
		requestID:   contextutil.GetRequestID(ctx),
		filter:      payslip.EmployeeFilter{IncludeInactive: req.IncludeInactive},
	}
	if plan.concurrency < 1 {
		plan.concurrency = s.concurrency
	}
	if plan.concurrency > maxConcurrency {
		plan.concurrency = maxConcurrency
	}
	if id, err := uuid.Parse(actorID); err == nil {
		plan.actorID = &id
	}
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		paymentDate, err := time.Parse(dateLayout, *req.PaymentDate)
		if err != nil {
			return runPlan{}, payrollbatcherrors.ErrInvalidDateFormat
		}
		plan.paymentDate = &paymentDate
	}
	for _, raw := range req.EmployeeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return runPlan{}, payrollbatcherrors.ErrInvalidEmployeeID
		}
		plan.filter.EmployeeIDs = append(plan.filter.EmployeeIDs, id)
	}
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		id, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return runPlan{}, payrollbatcherrors.ErrInvalidDepartmentID
		}
		plan.filter.DepartmentID = &id
	}
	return plan, nil
}

// acquirePeriodLock allows one running batch per period. Without Redis the
// lock is skipped and the payslip unique index still prevents duplicates.
func (s *service) acquirePeriodLock(ctx context.Context, plan runPlan) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}

	key := batchLockKey(plan.periodStart, plan.periodEnd)
	owner := plan.batchID.String()
	ok, err := s.rdb.SetNX(ctx, key, owner, batchLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return nil, payrollbatcherrors.ErrBatchAlreadyRunning
	}
	return func() {
		released, err := releaseLockScript.Run(context.WithoutCancel(ctx), s.rdb, []string{key}, owner).Int()
		if err != nil {
			s.logger.Warn("release batch lock failed", zap.String("key", key), zap.Error(err))
			return
		}
		if released == 0 {
			s.logger.Warn("batch lock expired before release",
				zap.String("key", key),
				zap.String("batch_id", owner),
			)
		}
	}, nil
}

// process generates payslips with at most plan.concurrency workers.
// Cancellation is observed before each employee; a generation already
// started runs to completion.
func (s *service) process(ctx context.Context, plan runPlan, employees []payslip.Employee, logger *zap.Logger) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(employees))

	var g errgroup.Group
	g.SetLimit(plan.concurrency)

	for i, employee := range employees {
		if ctx.Err() != nil {
			outcomes[i] = cancelledOutcome(plan.batchID, employee.ID)
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i] = cancelledOutcome(plan.batchID, employee.ID)
				return nil
			}
			outcomes[i] = s.generateOne(context.WithoutCancel(ctx), plan, employee.ID)
			if outcomes[i].Status == OutcomeFailed {
				logger.Warn("payslip generation failed",
					zap.String("employee_id", employee.ID.String()),
					zap.String("code", outcomes[i].ErrorCode),
					zap.String("reason", outcomes[i].ErrorMessage),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *service) generateOne(ctx context.Context, plan runPlan, employeeID uuid.UUID) BatchOutcome {
	outcome := BatchOutcome{
		ID:         uuid.New(),
		BatchID:    plan.batchID,
		EmployeeID: employeeID,
	}

	resp, err := s.payslips.Generate(ctx, payslip.GenerateRequest{
		EmployeeID:  employeeID,
		PeriodStart: plan.periodStart,
		PeriodEnd:   plan.periodEnd,
		PaymentDate: plan.paymentDate,
		Submit:      plan.submit,
		ActorID:     plan.actorID,
		BatchID:     &plan.batchID,
		RequestID:   plan.requestID,
	})
	switch {
	case err == nil:
		outcome.Status = OutcomeGenerated
	case errors.Is(err, paysliperrors.ErrDuplicatePayslip):
		outcome.Status = OutcomeSkipped
		outcome.ErrorCode = apperror.CodeOf(err)
		outcome.ErrorMessage = err.Error()
		existing, lookupErr := s.payslips.GetByPeriod(ctx, employeeID, plan.periodStart, plan.periodEnd)
		if lookupErr != nil {
			return outcome
		}
		resp = existing
	default:
		outcome.Status = OutcomeFailed
		outcome.ErrorCode = apperror.CodeOf(err)
		outcome.ErrorMessage = err.Error()
		return outcome
	}

	if id, err := uuid.Parse(resp.ID); err == nil {
		outcome.PayslipID = &id
	}
	outcome.PayslipNumber = resp.PayslipNumber
	outcome.gross = resp.GrossEarnings
	outcome.deductions = resp.TotalDeductions
	outcome.net = resp.NetPay
	return outcome
}

func cancelledOutcome(batchID, employeeID uuid.UUID) BatchOutcome {
	return BatchOutcome{
		ID:           uuid.New(),
		BatchID:      batchID,
		EmployeeID:   employeeID,
		Status:       OutcomeCancelled,
		ErrorCode:    "CANCELLED",
		ErrorMessage: "batch cancelled before this employee was processed",
	}
}

// summarize fills counters and totals. Totals include skipped employees'
// existing payslips. A batch fails only when employees were selected and
// none of them ended with a payslip.
func summarize(batch *PayrollBatch, outcomes []BatchOutcome, cancelled bool) {
	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeGenerated:
			batch.GeneratedEmployees++
		case OutcomeSkipped:
			batch.SkippedEmployees++
		case OutcomeFailed:
			batch.FailedEmployees++
		case OutcomeCancelled:
			batch.CancelledEmployees++
			continue
		}
		gross = gross.Add(o.gross)
		deductions = deductions.Add(o.deductions)
		net = net.Add(o.net)
	}
	batch.ProcessedEmployees = batch.GeneratedEmployees + batch.SkippedEmployees + batch.FailedEmployees
	batch.TotalGross = gross
	batch.TotalDeductions = deductions
	batch.TotalNet = net

	switch {
	case cancelled:
		batch.Status = StatusCancelled
	case batch.TotalEmployees > 0 && batch.GeneratedEmployees+batch.SkippedEmployees == 0:
		batch.Status = StatusFailed
	default:
		batch.Status = StatusCompleted
	}
}

func (s *service) persist(ctx context.Context, plan runPlan, batch *PayrollBatch, outcomes []BatchOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Update(ctx, batch); err != nil {
		return err
	}
	if err := qtx.CreateOutcomes(ctx, outcomes); err != nil {
		return err
	}

	if s.outbox != nil {
		event := events.PayrollBatchCompletedEvent{
			EventType:          "payroll.batch.completed",
			BatchID:            batch.ID.String(),
			PeriodStart:        batch.PeriodStart.Format(dateLayout),
			PeriodEnd:          batch.PeriodEnd.Format(dateLayout),
			Status:             string(batch.Status),
			TotalEmployees:     batch.TotalEmployees,
			GeneratedEmployees: batch.GeneratedEmployees,
			SkippedEmployees:   batch.SkippedEmployees,
			FailedEmployees:    batch.FailedEmployees,
			CancelledEmployees: batch.CancelledEmployees,
			TotalGross:         batch.TotalGross.StringFixed(2),
			TotalDeductions:    batch.TotalDeductions.StringFixed(2),
			TotalNet:           batch.TotalNet.StringFixed(2),
			OccurredAt:         s.now().UTC(),
		}
		if batch.RequestedBy != nil {
			event.RequestedBy = batch.RequestedBy.String()
		}
		outboxEvent, err := kafka.NewOutboxEvent(plan.requestID, "payroll_batch", batch.ID.String(), event.EventType, events.PayrollBatchCompletedTopic, event)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			return err
		}
	}

	return tx.Commit()
}
