package loan

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	loanerrors "go-payroll/internal/loan/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var maxInterestRate = decimal.NewFromInt(100)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLoanRequest) (LoanResponse, error)
	GetByID(ctx context.Context, id string) (LoanResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LoanResponse, error)
	Approve(ctx context.Context, id, actorID string) (LoanResponse, error)
	Reject(ctx context.Context, id, actorID, reason string) (LoanResponse, error)
	DueInstallments(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]Installment, error)
	RecordRepayments(ctx context.Context, tx *sql.Tx, payslipID uuid.UUID, installments []Installment) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		now:    time.Now,
		logger: l,
	}
}

// Create records a pending loan or advance. Advances default to a single
// installment; without an explicit installment amount the principal is
// split evenly, rounded up to the cent so the schedule never falls short.
func (s *service) Create(ctx context.Context, actorID string, req CreateLoanRequest) (LoanResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidEmployeeID
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidDateFormat
	}

	loan := LoanAdvance{
		ID:                uuid.New(),
		EmployeeID:        employeeID,
		Type:              Type(req.Type),
		Amount:            req.Amount,
		Purpose:           strings.TrimSpace(req.Purpose),
		InterestRate:      req.InterestRate,
		InstallmentCount:  req.InstallmentCount,
		InstallmentAmount: req.InstallmentAmount,
		StartDate:         startDate,
		Status:            StatusPending,
		AmountRepaid:      decimal.Zero,
	}
	if loan.InstallmentCount == 0 && loan.Type == TypeAdvance {
		loan.InstallmentCount = 1
	}
	if loan.InstallmentAmount.IsZero() && loan.InstallmentCount > 0 {
		loan.InstallmentAmount = loan.Amount.Div(decimal.NewFromInt(int64(loan.InstallmentCount))).RoundCeil(2)
	}
	if id, err := uuid.Parse(actorID); err == nil {
		loan.CreatedBy = &id
	}

	if err := validateTerms(loan); err != nil {
		return LoanResponse{}, err
	}

	if err := s.repo.Create(ctx, &loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err, nil)
	}

	s.logger.Info("loan created",
		zap.String("loan_id", loan.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("type", string(loan.Type)),
		zap.String("amount", loan.Amount.StringFixed(2)),
	)
	return mapToResponse(loan), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LoanResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidLoanID
	}
	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err, loanerrors.ErrLoanNotFound)
	}
	return mapToResponse(*loan), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]LoanResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, loanerrors.ErrInvalidEmployeeID
	}
	loans, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		return nil, err
	}
	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, id, actorID string) (LoanResponse, error) {
	approverID, err := uuid.Parse(actorID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidActorID
	}
	return s.decide(ctx, id, StatusApproved, func(l *LoanAdvance, now time.Time) {
		l.ApprovedBy = &approverID
		l.ApprovedAt = &now
	})
}

func (s *service) Reject(ctx context.Context, id, actorID, reason string) (LoanResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return LoanResponse{}, loanerrors.ErrReasonRequired
	}
	return s.decide(ctx, id, StatusRejected, func(l *LoanAdvance, now time.Time) {
		l.RejectedReason = &reason
	})
}

// decide moves a pending loan to approved or rejected under a row lock.
func (s *service) decide(ctx context.Context, id string, target Status, mutate func(l *LoanAdvance, now time.Time)) (LoanResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidLoanID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	loan, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err, loanerrors.ErrLoanNotFound)
	}
	if loan.Status != StatusPending {
		return LoanResponse{}, apperror.WithDetail(
			loanerrors.ErrInvalidStatusTransition,
			fmt.Errorf("%s -> %s", loan.Status, target),
		)
	}

	loan.Status = target
	mutate(loan, s.now())

	if err := qtx.Update(ctx, loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err, nil)
	}
	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan decided",
		zap.String("loan_id", loan.ID.String()),
		zap.String("status", string(loan.Status)),
	)
	return mapToResponse(*loan), nil
}

// DueInstallments lists the installments payroll should deduct for a
// period starting at asOf.
func (s *service) DueInstallments(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]Installment, error) {
	loans, err := s.repo.FindDue(ctx, employeeID, asOf)
	if err != nil {
		return nil, err
	}
	var out []Installment
	for _, l := range loans {
		if !l.DueAt(asOf) {
			continue
		}
		out = append(out, Installment{LoanID: l.ID, Type: l.Type, Amount: l.NextInstallment()})
	}
	return out, nil
}

// RecordRepayments books the installments a paid payslip deducted. It runs
// on the caller's transaction so the repayment commits with the payslip
// status change.
func (s *service) RecordRepayments(ctx context.Context, tx *sql.Tx, payslipID uuid.UUID, installments []Installment) error {
	qtx := s.repo.WithTx(tx)
	for _, inst := range installments {
		loan, err := qtx.FindByIDForUpdate(ctx, inst.LoanID.String())
		if err != nil {
			return mapRepositoryError(err, apperror.WithDetail(loanerrors.ErrLoanNotFound, fmt.Errorf("loan %s", inst.LoanID)))
		}

		applied := loan.Repay(inst.Amount)
		if applied.IsZero() {
			s.logger.Warn("installment skipped, loan already settled",
				zap.String("loan_id", loan.ID.String()),
				zap.String("payslip_id", payslipID.String()),
			)
			continue
		}

		repayment := LoanRepayment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			PayslipID: payslipID,
			Amount:    applied,
		}
		if err := qtx.CreateRepayment(ctx, &repayment); err != nil {
			return mapRepositoryError(err, nil)
		}
		if err := qtx.Update(ctx, loan); err != nil {
			return mapRepositoryError(err, nil)
		}

		s.logger.Info("loan installment repaid",
			zap.String("loan_id", loan.ID.String()),
			zap.String("payslip_id", payslipID.String()),
			zap.String("amount", applied.StringFixed(2)),
			zap.String("balance", loan.Balance().StringFixed(2)),
			zap.String("status", string(loan.Status)),
		)
	}
	return nil
}

func validateTerms(l LoanAdvance) error {
	if l.Type != TypeLoan && l.Type != TypeAdvance {
		return apperror.WithDetail(loanerrors.ErrInvalidTerms, fmt.Errorf("type must be loan or advance"))
	}
	if !l.Amount.IsPositive() {
		return apperror.WithDetail(loanerrors.ErrInvalidTerms, fmt.Errorf("amount must be positive"))
	}
	if l.InterestRate.IsNegative() || l.InterestRate.GreaterThan(maxInterestRate) {
		return apperror.WithDetail(loanerrors.ErrInvalidTerms, fmt.Errorf("interest rate must be between 0 and 100"))
	}
	if l.InstallmentCount < 1 {
		return apperror.WithDetail(loanerrors.ErrInvalidTerms, fmt.Errorf("installment count must be at least 1"))
	}
	if !l.InstallmentAmount.IsPositive() || l.InstallmentAmount.GreaterThan(l.Amount) {
		return apperror.WithDetail(loanerrors.ErrInvalidTerms, fmt.Errorf("installment amount must be in (0, amount]"))
	}
	return nil
}

func mapToResponse(l LoanAdvance) LoanResponse {
	resp := LoanResponse{
		ID:                l.ID.String(),
		EmployeeID:        l.EmployeeID.String(),
		Type:              string(l.Type),
		Amount:            l.Amount,
		Purpose:           l.Purpose,
		InterestRate:      l.InterestRate,
		InstallmentCount:  l.InstallmentCount,
		InstallmentAmount: l.InstallmentAmount,
		StartDate:         l.StartDate.Format(dateLayout),
		Status:            string(l.Status),
		AmountRepaid:      l.AmountRepaid,
		Balance:           l.Balance(),
		RejectedReason:    l.RejectedReason,
		CreatedAt:         l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
