package loan_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/loan"
	loanerrors "go-payroll/internal/loan/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoanRepository struct {
	mu         sync.Mutex
	loans      map[uuid.UUID]loan.LoanAdvance
	repayments []loan.LoanRepayment

	createRepaymentFn func(ctx context.Context, r *loan.LoanRepayment) error
}

func newFakeLoanRepository() *fakeLoanRepository {
	return &fakeLoanRepository{loans: map[uuid.UUID]loan.LoanAdvance{}}
}

func (f *fakeLoanRepository) WithTx(tx *sql.Tx) loan.Repository {
	return f
}

func (f *fakeLoanRepository) Create(ctx context.Context, l *loan.LoanAdvance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.CreatedAt = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	f.loans[l.ID] = *l
	return nil
}

func (f *fakeLoanRepository) Update(ctx context.Context, l *loan.LoanAdvance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loans[l.ID] = *l
	return nil
}

func (f *fakeLoanRepository) FindByID(ctx context.Context, id string) (*loan.LoanAdvance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.loans[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (f *fakeLoanRepository) FindByIDForUpdate(ctx context.Context, id string) (*loan.LoanAdvance, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeLoanRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]loan.LoanAdvance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []loan.LoanAdvance
	for _, l := range f.loans {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepository) FindDue(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]loan.LoanAdvance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []loan.LoanAdvance
	for _, l := range f.loans {
		if l.EmployeeID == employeeID && (l.Status == loan.StatusApproved || l.Status == loan.StatusRepaying) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepository) CreateRepayment(ctx context.Context, r *loan.LoanRepayment) error {
	if f.createRepaymentFn != nil {
		return f.createRepaymentFn(ctx, r)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repayments = append(f.repayments, *r)
	return nil
}

type loanServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeLoanRepository
	service loan.Service
}

func setupLoanServiceTest(t *testing.T) *loanServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeLoanRepository()
	return &loanServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		service: loan.NewService(db, repo),
	}
}

func (deps *loanServiceDeps) seed(l loan.LoanAdvance) loan.LoanAdvance {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	deps.repo.loans[l.ID] = l
	return l
}

var approver = uuid.NewString()

func TestLoanService_Create(t *testing.T) {
	employeeID := uuid.NewString()

	t.Run("Loan splits principal across installments", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		resp, err := deps.service.Create(context.Background(), approver, loan.CreateLoanRequest{
			EmployeeID:       employeeID,
			Type:             "loan",
			Amount:           d("1000"),
			InstallmentCount: 3,
			StartDate:        "2026-02-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.InstallmentAmount.Equal(d("333.34")), resp.InstallmentAmount.String())
		assert.True(t, resp.Balance.Equal(d("1000")))
		assert.Len(t, deps.repo.loans, 1)
	})

	t.Run("Advance defaults to one installment", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		resp, err := deps.service.Create(context.Background(), approver, loan.CreateLoanRequest{
			EmployeeID: employeeID,
			Type:       "advance",
			Amount:     d("250"),
			StartDate:  "2026-02-01",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.InstallmentCount)
		assert.True(t, resp.InstallmentAmount.Equal(d("250")))
	})

	t.Run("Invalid terms", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		tests := []struct {
			name string
			req  loan.CreateLoanRequest
		}{
			{"zero amount", loan.CreateLoanRequest{EmployeeID: employeeID, Type: "loan", InstallmentCount: 2, StartDate: "2026-02-01"}},
			{"no installments", loan.CreateLoanRequest{EmployeeID: employeeID, Type: "loan", Amount: d("100"), StartDate: "2026-02-01"}},
			{"installment above principal", loan.CreateLoanRequest{EmployeeID: employeeID, Type: "loan", Amount: d("100"), InstallmentCount: 1, InstallmentAmount: d("150"), StartDate: "2026-02-01"}},
			{"interest above 100", loan.CreateLoanRequest{EmployeeID: employeeID, Type: "loan", Amount: d("100"), InstallmentCount: 1, InterestRate: d("101"), StartDate: "2026-02-01"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := deps.service.Create(context.Background(), approver, tt.req)
				assert.True(t, errors.Is(err, loanerrors.ErrInvalidTerms), err)
			})
		}
		assert.Empty(t, deps.repo.loans)
	})

	t.Run("Bad start date", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		_, err := deps.service.Create(context.Background(), approver, loan.CreateLoanRequest{
			EmployeeID: employeeID, Type: "advance", Amount: d("100"), StartDate: "01/02/2026",
		})

		assert.True(t, errors.Is(err, loanerrors.ErrInvalidDateFormat))
	})
}

func TestLoanService_Decide(t *testing.T) {
	t.Run("Approve pending", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		l := deps.seed(loan.LoanAdvance{EmployeeID: uuid.New(), Type: loan.TypeLoan, Amount: d("500"), InstallmentAmount: d("100"), InstallmentCount: 5, Status: loan.StatusPending})

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		resp, err := deps.service.Approve(context.Background(), l.ID.String(), approver)

		require.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		require.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, approver, *resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("Approve twice fails", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		l := deps.seed(loan.LoanAdvance{EmployeeID: uuid.New(), Amount: d("500"), Status: loan.StatusApproved})

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		_, err := deps.service.Approve(context.Background(), l.ID.String(), approver)

		assert.True(t, errors.Is(err, loanerrors.ErrInvalidStatusTransition))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("Reject requires a reason", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		_, err := deps.service.Reject(context.Background(), uuid.NewString(), approver, " ")

		assert.True(t, errors.Is(err, loanerrors.ErrReasonRequired))
	})

	t.Run("Reject pending", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		l := deps.seed(loan.LoanAdvance{EmployeeID: uuid.New(), Amount: d("500"), Status: loan.StatusPending})

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		resp, err := deps.service.Reject(context.Background(), l.ID.String(), approver, "over limit")

		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
		assert.Equal(t, "over limit", *resp.RejectedReason)
	})

	t.Run("Not found", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		_, err := deps.service.Approve(context.Background(), uuid.NewString(), approver)

		assert.True(t, errors.Is(err, loanerrors.ErrLoanNotFound))
	})
}

func TestLoanService_Installments(t *testing.T) {
	employeeID := uuid.New()

	t.Run("Due installments skip loans not yet started", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		running := deps.seed(loan.LoanAdvance{EmployeeID: employeeID, Type: loan.TypeLoan, Amount: d("1000"), AmountRepaid: d("950"), InstallmentAmount: d("100"), Status: loan.StatusRepaying, StartDate: date("2025-10-01")})
		deps.seed(loan.LoanAdvance{EmployeeID: employeeID, Type: loan.TypeAdvance, Amount: d("300"), InstallmentAmount: d("300"), Status: loan.StatusApproved, StartDate: date("2026-03-01")})

		due, err := deps.service.DueInstallments(context.Background(), employeeID, date("2026-01-01"))

		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, running.ID, due[0].LoanID)
		assert.True(t, due[0].Amount.Equal(d("50")), due[0].Amount.String())
	})

	t.Run("Record repayments updates amount repaid", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		l := deps.seed(loan.LoanAdvance{EmployeeID: employeeID, Type: loan.TypeLoan, Amount: d("300"), InstallmentAmount: d("100"), Status: loan.StatusApproved, StartDate: date("2026-01-01")})
		payslipID := uuid.New()

		deps.sqlMock.ExpectBegin()
		tx, err := deps.db.Begin()
		require.NoError(t, err)

		err = deps.service.RecordRepayments(context.Background(), tx, payslipID, []loan.Installment{
			{LoanID: l.ID, Type: loan.TypeLoan, Amount: d("100")},
		})

		require.NoError(t, err)
		stored := deps.repo.loans[l.ID]
		assert.True(t, stored.AmountRepaid.Equal(d("100")))
		assert.Equal(t, loan.StatusRepaying, stored.Status)
		require.Len(t, deps.repo.repayments, 1)
		assert.Equal(t, payslipID, deps.repo.repayments[0].PayslipID)
	})

	t.Run("Duplicate repayment for a payslip", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		l := deps.seed(loan.LoanAdvance{EmployeeID: employeeID, Type: loan.TypeLoan, Amount: d("300"), InstallmentAmount: d("100"), Status: loan.StatusRepaying, StartDate: date("2026-01-01")})
		deps.repo.createRepaymentFn = func(ctx context.Context, r *loan.LoanRepayment) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_loan_repayment_payslip"}
		}

		err := deps.service.RecordRepayments(context.Background(), nil, uuid.New(), []loan.Installment{
			{LoanID: l.ID, Type: loan.TypeLoan, Amount: d("100")},
		})

		assert.True(t, errors.Is(err, loanerrors.ErrRepaymentAlreadyRecorded))
		assert.True(t, deps.repo.loans[l.ID].AmountRepaid.IsZero())
	})

	t.Run("Unknown loan", func(t *testing.T) {
		deps := setupLoanServiceTest(t)

		err := deps.service.RecordRepayments(context.Background(), nil, uuid.New(), []loan.Installment{
			{LoanID: uuid.New(), Amount: d("10")},
		})

		assert.True(t, errors.Is(err, loanerrors.ErrLoanNotFound))
	})
}
