package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeLoan    Type = "loan"
	TypeAdvance Type = "advance"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusRepaying  Status = "repaying"
	StatusCompleted Status = "completed"
)

// LoanAdvance is money lent to an employee and recovered from payroll in
// fixed installments. Amount is the principal; InterestRate is the agreed
// annual percentage and is informational only, the installment schedule is
// what payroll deducts.
type LoanAdvance struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_loan_employee_status"`
	Type              Type            `gorm:"type:varchar(20);not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Purpose           string          `gorm:"type:text;not null;default:''"`
	InterestRate      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	InstallmentCount  int             `gorm:"not null"`
	InstallmentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	StartDate         time.Time       `gorm:"type:date;not null"`
	Status            Status          `gorm:"type:varchar(20);not null;default:'pending';index:idx_loan_employee_status"`
	AmountRepaid      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ApprovedBy        *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt        *time.Time
	RejectedReason    *string    `gorm:"type:text"`
	CreatedBy         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (LoanAdvance) TableName() string {
	return "loan_advances"
}

// LoanRepayment records one installment recovered through a paid payslip.
// A payslip repays a given loan at most once.
type LoanRepayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoanID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_loan_repayment_payslip"`
	PayslipID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_loan_repayment_payslip"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time
}

func Models() []any {
	return []any{&LoanAdvance{}, &LoanRepayment{}}
}

func (l LoanAdvance) Balance() decimal.Decimal {
	b := l.Amount.Sub(l.AmountRepaid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// DueAt reports whether payroll for a period starting at asOf should
// deduct an installment.
func (l LoanAdvance) DueAt(asOf time.Time) bool {
	if l.Status != StatusApproved && l.Status != StatusRepaying {
		return false
	}
	if asOf.Before(l.StartDate) {
		return false
	}
	return l.Balance().IsPositive()
}

// NextInstallment is the scheduled installment, capped at the remaining
// balance so the last one settles the loan exactly.
func (l LoanAdvance) NextInstallment() decimal.Decimal {
	b := l.Balance()
	if l.InstallmentAmount.GreaterThan(b) {
		return b
	}
	return l.InstallmentAmount
}

// Repay books amount against the balance and moves the loan to repaying or
// completed. It returns the amount actually applied.
func (l *LoanAdvance) Repay(amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	if b := l.Balance(); amount.GreaterThan(b) {
		amount = b
	}
	l.AmountRepaid = l.AmountRepaid.Add(amount)
	if l.Balance().IsZero() {
		l.Status = StatusCompleted
	} else {
		l.Status = StatusRepaying
	}
	return amount
}

// Installment is one loan deduction for a payroll period.
type Installment struct {
	LoanID uuid.UUID
	Type   Type
	Amount decimal.Decimal
}

const (
	LoanComponentCode    = "LOAN_REPAYMENT"
	AdvanceComponentCode = "SALARY_ADVANCE"
)

func (i Installment) ComponentCode() string {
	if i.Type == TypeAdvance {
		return AdvanceComponentCode
	}
	return LoanComponentCode
}

func (i Installment) ComponentName() string {
	if i.Type == TypeAdvance {
		return "Salary advance recovery"
	}
	return "Loan repayment"
}
