package payslip

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transition describes one lifecycle step. mutate runs on the locked row
// after the status check; afterUpdate runs inside the same transaction.
type transition struct {
	action       string
	target       Status
	notification string
	mutate       func(p *Payslip, now time.Time)
	afterUpdate  func(tx *sql.Tx, p *Payslip, now time.Time, write outboxWriter) error
}

type outboxWriter func(eventType, topic string, payload any) error

func (s *service) Submit(ctx context.Context, id, actorID string) (PayslipResponse, error) {
	return s.transition(ctx, id, actorID, transition{
		action:       "PAYSLIP_SUBMITTED",
		target:       StatusPending,
		notification: NotificationSubmitted,
		mutate: func(p *Payslip, now time.Time) {
			p.SubmittedAt = &now
		},
	})
}

// Approve records the approver and queues rendering of the payslip
// document.
func (s *service) Approve(ctx context.Context, id, actorID string) (PayslipResponse, error) {
	approverID, err := uuid.Parse(actorID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidActorID
	}
	return s.transition(ctx, id, actorID, transition{
		action:       "PAYSLIP_APPROVED",
		target:       StatusApproved,
		notification: NotificationApproved,
		mutate: func(p *Payslip, now time.Time) {
			p.ApprovedBy = &approverID
			p.ApprovedAt = &now
		},
		afterUpdate: func(tx *sql.Tx, p *Payslip, now time.Time, write outboxWriter) error {
			event := events.PayslipDocumentRequestedEvent{
				EventType:   "payslip.document.requested",
				PayslipID:   p.ID.String(),
				RequestedBy: actorID,
				OccurredAt:  now.UTC(),
			}
			return write(event.EventType, events.PayslipDocumentRequestedTopic, event)
		},
	})
}

func (s *service) Reject(ctx context.Context, id, actorID, reason string) (PayslipResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return PayslipResponse{}, paysliperrors.ErrReasonRequired
	}
	return s.transition(ctx, id, actorID, transition{
		action:       "PAYSLIP_REJECTED",
		target:       StatusRejected,
		notification: NotificationRejected,
		mutate: func(p *Payslip, now time.Time) {
			p.RejectedReason = &reason
			p.RejectedAt = &now
		},
	})
}

func (s *service) Cancel(ctx context.Context, id, actorID, reason string) (PayslipResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return PayslipResponse{}, paysliperrors.ErrReasonRequired
	}
	return s.transition(ctx, id, actorID, transition{
		action:       "PAYSLIP_CANCELLED",
		target:       StatusCancelled,
		notification: NotificationCancelled,
		mutate: func(p *Payslip, now time.Time) {
			p.CancelledReason = &reason
			p.CancelledAt = &now
		},
	})
}

// MarkPaid also books the loan installments the payslip deducted, in the
// same transaction as the status change.
func (s *service) MarkPaid(ctx context.Context, id, actorID, reference string) (PayslipResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return PayslipResponse{}, paysliperrors.ErrPaymentReferenceRequired
	}
	return s.transition(ctx, id, actorID, transition{
		action:       "PAYSLIP_PAID",
		target:       StatusPaid,
		notification: NotificationPaid,
		mutate: func(p *Payslip, now time.Time) {
			p.PaidAt = &now
			p.PaymentReference = &reference
			if p.PaymentDate == nil {
				paymentDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
				p.PaymentDate = &paymentDate
			}
		},
		afterUpdate: func(tx *sql.Tx, p *Payslip, now time.Time, write outboxWriter) error {
			return s.recordLoanRepayments(ctx, tx, p)
		},
	})
}

func (s *service) recordLoanRepayments(ctx context.Context, tx *sql.Tx, p *Payslip) error {
	if s.loans == nil {
		return nil
	}
	entries, err := s.repo.WithTx(tx).FindEntries(ctx, p.ID)
	if err != nil {
		return err
	}
	var installments []loan.Installment
	for _, e := range entries {
		if e.LoanID == nil {
			continue
		}
		kind := loan.TypeLoan
		if e.ComponentCode == loan.AdvanceComponentCode {
			kind = loan.TypeAdvance
		}
		installments = append(installments, loan.Installment{LoanID: *e.LoanID, Type: kind, Amount: e.Amount.Abs()})
	}
	if len(installments) == 0 {
		return nil
	}
	return s.loans.RecordRepayments(ctx, tx, p.ID, installments)
}

// AnnotatePayment corrects the payment reference of a Paid payslip without
// changing its status.
func (s *service) AnnotatePayment(ctx context.Context, id, actorID, reference string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return PayslipResponse{}, paysliperrors.ErrPaymentReferenceRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	if p.Status != StatusPaid {
		return PayslipResponse{}, paysliperrors.ErrAnnotateOnlyPaid
	}
	p.PaymentReference = &reference
	if err := qtx.Update(ctx, p); err != nil {
		return PayslipResponse{}, mapRepositoryError(err, nil)
	}
	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.auditLog(ctx, "PAYSLIP_PAYMENT_ANNOTATED", actorID, *p, "payment reference updated")
	return mapToResponse(*p), nil
}

func (s *service) transition(ctx context.Context, id, actorID string, t transition) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	if !p.Status.CanTransitionTo(t.target) {
		return PayslipResponse{}, apperror.WithDetail(
			paysliperrors.ErrInvalidStatusTransition,
			fmt.Errorf("%s -> %s", p.Status, t.target),
		)
	}

	from := p.Status
	p.Status = t.target
	if t.mutate != nil {
		t.mutate(p, now)
	}

	if err := qtx.Update(ctx, p); err != nil {
		return PayslipResponse{}, mapRepositoryError(err, nil)
	}

	if t.afterUpdate != nil {
		requestID := contextutil.GetRequestID(ctx)
		write := func(eventType, topic string, payload any) error {
			return s.writeOutbox(ctx, tx, requestID, p.ID, eventType, topic, payload)
		}
		if err := t.afterUpdate(tx, p, now, write); err != nil {
			return PayslipResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payslip status changed",
		zap.String("payslip_id", p.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(p.Status)),
	)

	s.notify(ctx, t.notification, *p)
	s.auditLog(ctx, t.action, actorID, *p, fmt.Sprintf("status %s -> %s", from, p.Status))

	return mapToResponse(*p), nil
}
