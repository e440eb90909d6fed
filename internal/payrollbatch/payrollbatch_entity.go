package payrollbatch

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

type OutcomeStatus string

const (
	OutcomeGenerated OutcomeStatus = "generated"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeCancelled OutcomeStatus = "cancelled"
)

type PayrollBatch struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodStart        time.Time       `gorm:"type:date;not null;index:idx_payroll_batch_period"`
	PeriodEnd          time.Time       `gorm:"type:date;not null;index:idx_payroll_batch_period"`
	Status             Status          `gorm:"type:varchar(20);not null;default:'running'"`
	TotalEmployees     int             `gorm:"not null;default:0"`
	ProcessedEmployees int             `gorm:"not null;default:0"`
	GeneratedEmployees int             `gorm:"not null;default:0"`
	SkippedEmployees   int             `gorm:"not null;default:0"`
	FailedEmployees    int             `gorm:"not null;default:0"`
	CancelledEmployees int             `gorm:"not null;default:0"`
	TotalGross         decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalDeductions    decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalNet           decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	StartedAt          time.Time       `gorm:"not null"`
	FinishedAt         *time.Time
	RequestedBy        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Outcomes []BatchOutcome `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// BatchOutcome records what happened to one employee in a batch.
type BatchOutcome struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID     `gorm:"type:uuid;not null"`
	Status        OutcomeStatus `gorm:"type:varchar(20);not null"`
	PayslipID     *uuid.UUID    `gorm:"type:uuid"`
	PayslipNumber string        `gorm:"type:varchar(30)"`
	ErrorCode     string        `gorm:"type:varchar(40)"`
	ErrorMessage  string        `gorm:"type:text"`
	CreatedAt     time.Time

	// payslip figures counted into the batch totals
	gross      decimal.Decimal
	deductions decimal.Decimal
	net        decimal.Decimal
}
