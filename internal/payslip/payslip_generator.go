package payslip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func payslipCounterKey(periodStart time.Time) string {
	return "payslip:" + periodStart.Format("200601")
}

func formatPayslipNumber(periodStart time.Time, seq int64) string {
	return fmt.Sprintf("PS-%s-%06d", periodStart.Format("200601"), seq)
}

// Generate computes and persists one payslip. A unique violation raised by
// a concurrent writer is retried once, which then surfaces as
// DuplicatePayslip through the regular duplicate check.
func (s *service) Generate(ctx context.Context, req GenerateRequest) (PayslipResponse, error) {
	if req.EmployeeID == uuid.Nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidEmployeeID
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || req.PeriodStart.After(req.PeriodEnd) {
		return PayslipResponse{}, paysliperrors.ErrInvalidPeriod
	}
	if req.RequestID == "" {
		req.RequestID = contextutil.GetRequestID(ctx)
	}

	logger := contextutil.GetLogger(ctx, s.logger)

	payslip, err := s.generate(ctx, req)
	if errors.Is(err, paysliperrors.ErrPersistenceConflict) {
		logger.Info("payslip insert conflicted, retrying",
			zap.String("employee_id", req.EmployeeID.String()),
			zap.String("period_start", req.PeriodStart.Format(dateLayout)),
		)
		payslip, err = s.generate(ctx, req)
	}
	if err != nil {
		return PayslipResponse{}, err
	}

	logger.Info("payslip generated",
		zap.String("payslip_id", payslip.ID.String()),
		zap.String("payslip_number", payslip.PayslipNumber),
		zap.String("employee_id", payslip.EmployeeID.String()),
		zap.String("net_pay", payslip.NetPay.StringFixed(2)),
		zap.String("status", string(payslip.Status)),
	)

	s.notify(ctx, NotificationGenerated, *payslip)
	s.auditLog(ctx, "PAYSLIP_GENERATED", actorString(req.ActorID), *payslip, "payslip generated")

	return mapToResponse(*payslip), nil
}

func (s *service) generate(ctx context.Context, req GenerateRequest) (*Payslip, error) {
	if err := s.ensureNoLivePayslip(ctx, s.repo, req); err != nil {
		return nil, err
	}

	employee, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !employee.Active {
		return nil, paysliperrors.ErrEmployeeInactive
	}

	comp, currency, rate, attendance, err := s.calculate(ctx, employee, req.PeriodStart, req.PeriodEnd, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payslip := Payslip{
		ID:           uuid.New(),
		EmployeeID:   employee.ID,
		BatchID:      req.BatchID,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		PaymentDate:  req.PaymentDate,
		Currency:     currency,
		ExchangeRate: rate,
		Status:       StatusDraft,
		CreatedBy:    req.ActorID,
	}
	comp.apply(&payslip, attendance)
	if req.Submit {
		payslip.Status = StatusPending
		payslip.SubmittedAt = &now
	}
	for i := range payslip.Entries {
		payslip.Entries[i].ID = uuid.New()
		payslip.Entries[i].PayslipID = payslip.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.ensureNoLivePayslip(ctx, qtx, req); err != nil {
		return nil, err
	}

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, payslipCounterKey(req.PeriodStart))
	if err != nil {
		return nil, err
	}
	payslip.PayslipNumber = formatPayslipNumber(req.PeriodStart, seq)

	if err := qtx.Create(ctx, &payslip); err != nil {
		return nil, mapRepositoryError(err, nil)
	}

	event := events.PayslipGeneratedEvent{
		EventType:     "payslip.generated",
		PayslipID:     payslip.ID.String(),
		PayslipNumber: payslip.PayslipNumber,
		EmployeeID:    payslip.EmployeeID.String(),
		PeriodStart:   payslip.PeriodStart.Format(dateLayout),
		PeriodEnd:     payslip.PeriodEnd.Format(dateLayout),
		Currency:      payslip.Currency,
		GrossEarnings: payslip.GrossEarnings.StringFixed(2),
		NetPay:        payslip.NetPay.StringFixed(2),
		Status:        string(payslip.Status),
		OccurredAt:    now.UTC(),
	}
	if payslip.BatchID != nil {
		event.BatchID = payslip.BatchID.String()
	}
	if err := s.writeOutbox(ctx, tx, req.RequestID, payslip.ID, event.EventType, events.PayslipGeneratedTopic, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &payslip, nil
}

func (s *service) ensureNoLivePayslip(ctx context.Context, repo Repository, req GenerateRequest) error {
	existing, err := repo.FindByPeriod(ctx, req.EmployeeID, req.PeriodStart, req.PeriodEnd)
	if err == nil {
		return apperror.WithDetail(
			paysliperrors.ErrDuplicatePayslip,
			fmt.Errorf("payslip %s already covers this period", existing.PayslipNumber),
		)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// calculate gathers ledger, rate table and attendance inputs for one
// employee and period. The stored exchange rate is 1 when the employee is
// paid in the table currency.
func (s *service) calculate(
	ctx context.Context,
	employee Employee,
	periodStart, periodEnd time.Time,
	exchangeRate decimal.Decimal,
) (computation, string, decimal.Decimal, AttendanceAdjustments, error) {
	table, err := s.rates.Snapshot(ctx, periodStart.Year())
	if err != nil {
		return computation{}, "", decimal.Zero, AttendanceAdjustments{}, err
	}

	currency := strings.ToUpper(employee.Currency)
	if currency == "" {
		currency = table.Currency
	}
	rate := decimal.NewFromInt(1)
	inputRate := decimal.Zero
	if !strings.EqualFold(currency, table.Currency) {
		if !exchangeRate.IsPositive() {
			return computation{}, "", decimal.Zero, AttendanceAdjustments{}, apperror.WithDetail(
				paysliperrors.ErrExchangeRateRequired,
				fmt.Errorf("%s to %s", currency, table.Currency),
			)
		}
		rate = exchangeRate
		inputRate = exchangeRate
	}

	entries, err := s.ledger.ActiveEntries(ctx, employee.ID, periodStart)
	if err != nil {
		return computation{}, "", decimal.Zero, AttendanceAdjustments{}, err
	}

	var installments []loan.Installment
	if s.loans != nil {
		installments, err = s.loans.DueInstallments(ctx, employee.ID, periodEnd)
		if err != nil {
			return computation{}, "", decimal.Zero, AttendanceAdjustments{}, err
		}
	}

	var attendance AttendanceAdjustments
	if s.attendance != nil {
		attendance, err = s.attendance.GetAttendanceAdjustments(ctx, employee.ID, periodStart, periodEnd)
		if err != nil {
			return computation{}, "", decimal.Zero, AttendanceAdjustments{}, err
		}
	}

	comp, err := computePayslip(computeInput{
		Employee:     employee,
		Entries:      entries,
		Installments: installments,
		Attendance:   attendance,
		Table:        table,
		Statutory:    s.statutory,
		ExchangeRate: inputRate,
	})
	if err != nil {
		return computation{}, "", decimal.Zero, AttendanceAdjustments{}, err
	}
	return comp, currency, rate, attendance, nil
}

// Regenerate recomputes a Draft payslip and replaces its entry set.
func (s *service) Regenerate(ctx context.Context, id, actorID string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	if current.Status != StatusDraft {
		return PayslipResponse{}, paysliperrors.ErrRegenerateOnlyDraft
	}

	employee, err := s.directory.GetEmployee(ctx, current.EmployeeID)
	if err != nil {
		return PayslipResponse{}, err
	}
	exchangeRate := decimal.Zero
	if !current.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		exchangeRate = current.ExchangeRate
	}
	comp, currency, rate, attendance, err := s.calculate(ctx, employee, current.PeriodStart, current.PeriodEnd, exchangeRate)
	if err != nil {
		return PayslipResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	locked, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	if locked.Status != StatusDraft {
		return PayslipResponse{}, paysliperrors.ErrRegenerateOnlyDraft
	}

	locked.Currency = currency
	locked.ExchangeRate = rate
	comp.apply(locked, attendance)
	entries := locked.Entries
	for i := range entries {
		entries[i].ID = uuid.New()
	}

	if err := qtx.Update(ctx, locked); err != nil {
		return PayslipResponse{}, mapRepositoryError(err, nil)
	}
	if err := qtx.ReplaceEntries(ctx, locked.ID, entries); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	locked.Entries = entries
	s.auditLog(ctx, "PAYSLIP_REGENERATED", actorID, *locked, "payslip recomputed")
	return mapToResponse(*locked), nil
}

// Delete soft-deletes a Draft payslip, freeing its period.
func (s *service) Delete(ctx context.Context, id, actorID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return paysliperrors.ErrInvalidPayslipID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	if p.Status != StatusDraft {
		return paysliperrors.ErrDeleteOnlyDraft
	}
	if err := qtx.Delete(ctx, p.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.auditLog(ctx, "PAYSLIP_DELETED", actorID, *p, "draft payslip deleted")
	return nil
}

func (s *service) writeOutbox(ctx context.Context, tx *sql.Tx, requestID string, payslipID uuid.UUID, eventType, topic string, payload any) error {
	if s.outbox == nil {
		return nil
	}
	event, err := kafka.NewOutboxEvent(requestID, "payslip", payslipID.String(), eventType, topic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func actorString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
