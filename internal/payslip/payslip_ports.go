package payslip

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/compensation"
	"go-payroll/internal/loan"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is the slice of master data the generator needs. BasicSalary is
// the latest effective salary.
type Employee struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	BasicSalary  decimal.Decimal
	Currency     string
	HireDate     time.Time
	Active       bool
	DepartmentID *uuid.UUID
}

type EmployeeFilter struct {
	EmployeeIDs     []uuid.UUID
	DepartmentID    *uuid.UUID
	IncludeInactive bool
}

type AttendanceAdjustments struct {
	DaysWorked        int
	UnpaidAbsenceDays int
	OvertimeHours     decimal.Decimal
}

// ProRateFactor is daysWorked / (daysWorked + unpaidAbsenceDays), or 1 when
// there is nothing recorded for the period.
func (a AttendanceAdjustments) ProRateFactor() decimal.Decimal {
	total := a.DaysWorked + a.UnpaidAbsenceDays
	if total <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(a.DaysWorked)).Div(decimal.NewFromInt(int64(total)))
}

//go:generate mockgen -source=payslip_ports.go -destination=mock/payslip_ports_mock.go -package=mock
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
}

type AttendanceFeed interface {
	GetAttendanceAdjustments(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (AttendanceAdjustments, error)
}

// Notifier delivers fire-and-forget notifications. Errors are logged by the
// caller and never fail the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, recipientID, kind string, payload any) error
}

// Ledger is the read side of the compensation ledger.
type Ledger interface {
	ActiveEntries(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]compensation.CompensationEntry, error)
}

// LoanBook supplies loan and advance installments as recurring deductions
// and books their repayment once the payslip that deducted them is paid.
type LoanBook interface {
	DueInstallments(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]loan.Installment, error)
	RecordRepayments(ctx context.Context, tx *sql.Tx, payslipID uuid.UUID, installments []loan.Installment) error
}

// DocumentStore persists rendered payslip documents and returns their URL.
type DocumentStore interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}

const (
	NotificationGenerated = "payslip.generated"
	NotificationSubmitted = "payslip.submitted"
	NotificationApproved  = "payslip.approved"
	NotificationRejected  = "payslip.rejected"
	NotificationCancelled = "payslip.cancelled"
	NotificationPaid      = "payslip.paid"
)
