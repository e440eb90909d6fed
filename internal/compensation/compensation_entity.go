package compensation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindEarning   Kind = "earning"
	KindAllowance Kind = "allowance"
	KindDeduction Kind = "deduction"
)

type CalculationType string

const (
	CalcFixed           CalculationType = "fixed"
	CalcPercentage      CalculationType = "percentage"
	CalcPerOvertimeHour CalculationType = "per_overtime_hour"
)

type StatutoryKind string

const (
	StatutorySocialSecurity StatutoryKind = "social_security"
	StatutoryIncomeTax      StatutoryKind = "income_tax"
	StatutoryLevy           StatutoryKind = "levy"
)

// StatutoryKinds lists every kind the generator books on a payslip.
var StatutoryKinds = []StatutoryKind{
	StatutorySocialSecurity,
	StatutoryIncomeTax,
	StatutoryLevy,
}

type SalaryComponent struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code            string          `gorm:"type:varchar(40);not null;uniqueIndex:uq_salary_component_code"`
	Name            string          `gorm:"type:varchar(120);not null"`
	Kind            Kind            `gorm:"type:varchar(20);not null"`
	CalculationType CalculationType `gorm:"type:varchar(30);not null;default:'fixed'"`
	Taxable         bool            `gorm:"not null;default:true"`
	Statutory       bool            `gorm:"not null;default:false"`
	StatutoryKind   StatutoryKind   `gorm:"type:varchar(30);not null;default:''"`
	ProRated        bool            `gorm:"not null;default:false"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c SalaryComponent) IsEarning() bool {
	return c.Kind == KindEarning || c.Kind == KindAllowance
}

// CompensationEntry assigns a component to an employee for the half-open
// range [EffectiveFrom, EffectiveTo). A nil EffectiveTo is open-ended.
type CompensationEntry struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_compensation_employee_component"`
	ComponentID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_compensation_employee_component"`
	Component     *SalaryComponent `gorm:"foreignKey:ComponentID;references:ID"`
	Amount        decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Percentage    decimal.Decimal  `gorm:"type:numeric(9,6);not null;default:0"`
	EffectiveFrom time.Time        `gorm:"type:date;not null"`
	EffectiveTo   *time.Time       `gorm:"type:date"`
	Notes         *string          `gorm:"type:text"`
	CreatedBy     *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e CompensationEntry) ActiveAt(t time.Time) bool {
	if t.Before(e.EffectiveFrom) {
		return false
	}
	return e.EffectiveTo == nil || t.Before(*e.EffectiveTo)
}

// Overlaps reports whether [from, to) intersects the entry's range.
func (e CompensationEntry) Overlaps(from time.Time, to *time.Time) bool {
	if to != nil && !to.After(e.EffectiveFrom) {
		return false
	}
	if e.EffectiveTo != nil && !e.EffectiveTo.After(from) {
		return false
	}
	return true
}
