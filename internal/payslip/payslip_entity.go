package payslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusPaid      Status = "paid"
)

// Payslip is one employee's pay for one period. A live (not cancelled, not
// rejected, not deleted) payslip is unique per (employee, period_start,
// period_end).
type Payslip struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayslipNumber string     `gorm:"type:varchar(30);not null;uniqueIndex:uq_payslip_number"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_employee_period,where:deleted_at IS NULL AND status <> 'cancelled' AND status <> 'rejected'"`
	BatchID       *uuid.UUID `gorm:"type:uuid;index"`

	PeriodStart  time.Time       `gorm:"type:date;not null;uniqueIndex:uq_payslip_employee_period,where:deleted_at IS NULL AND status <> 'cancelled' AND status <> 'rejected'"`
	PeriodEnd    time.Time       `gorm:"type:date;not null;uniqueIndex:uq_payslip_employee_period,where:deleted_at IS NULL AND status <> 'cancelled' AND status <> 'rejected'"`
	PaymentDate  *time.Time      `gorm:"type:date"`
	Currency     string          `gorm:"type:char(3);not null"`
	ExchangeRate decimal.Decimal `gorm:"type:numeric(18,8);not null;default:1"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'draft';index"`

	BasicSalary          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	GrossEarnings        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxableEarnings      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NonTaxableEarnings   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalAllowances      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherDeductions      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxableIncome        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	IncomeTax            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ContributionEmployee decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ContributionEmployer decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Levy                 decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NetPay               decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	DaysWorked        int             `gorm:"not null;default:0"`
	UnpaidAbsenceDays int             `gorm:"not null;default:0"`
	OvertimeHours     decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`

	SubmittedAt      *time.Time
	ApprovedBy       *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt       *time.Time `gorm:"index"`
	RejectedReason   *string    `gorm:"type:text"`
	RejectedAt       *time.Time
	CancelledReason  *string `gorm:"type:text"`
	CancelledAt      *time.Time
	PaidAt           *time.Time `gorm:"index"`
	PaymentReference *string    `gorm:"type:varchar(100)"`

	DocumentURL         *string
	DocumentGeneratedAt *time.Time

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Entries []PayslipEntry `gorm:"foreignKey:PayslipID"`
}

// PayslipEntry is a write-once line item. Earnings are positive and
// deductions negative.
type PayslipEntry struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayslipID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	ComponentID   *uuid.UUID          `gorm:"type:uuid"`
	LoanID        *uuid.UUID          `gorm:"type:uuid;index"`
	ComponentCode string              `gorm:"type:varchar(40);not null"`
	ComponentName string              `gorm:"type:varchar(120);not null"`
	Kind          string              `gorm:"type:varchar(20);not null"`
	Statutory     bool                `gorm:"not null;default:false"`
	Amount        decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	Quantity      decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Rate          decimal.NullDecimal `gorm:"type:numeric(14,6)"`
	Position      int                 `gorm:"not null"`
	CreatedAt     time.Time
}

var transitions = map[Status][]Status{
	StatusDraft:    {StatusPending, StatusCancelled},
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusPaid, StatusCancelled},
}

// CanTransitionTo reports whether next is reachable in one step. Paid,
// Rejected and Cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReleasesPeriod reports whether a payslip in this status no longer holds
// its period, so a new one can be generated.
func (s Status) ReleasesPeriod() bool {
	return s == StatusCancelled || s == StatusRejected
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
