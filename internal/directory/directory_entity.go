package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The records below map tables owned by the HR core. The payroll engine
// only reads them.

type EmployeeRecord struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	FullName     string     `gorm:"type:varchar(150);not null"`
	Email        string     `gorm:"type:varchar(150);uniqueIndex"`
	Currency     string     `gorm:"type:char(3);not null;default:'USD'"`
	HireDate     time.Time  `gorm:"type:date"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EmployeeRecord) TableName() string {
	return "employees"
}

type SalaryRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_employee_salary_effective"`
	BaseSalary    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	EffectiveDate time.Time       `gorm:"type:date;not null;uniqueIndex:uq_employee_salary_effective"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SalaryRecord) TableName() string {
	return "employee_salaries"
}

type AttendanceRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	AttendanceDate time.Time      `gorm:"type:date;not null;index"`
	ClockIn        time.Time      `gorm:"type:timestamptz;not null"`
	ClockOut       *time.Time     `gorm:"type:timestamptz"`
	Status         string         `gorm:"type:varchar(20);not null;default:PRESENT"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (AttendanceRecord) TableName() string {
	return "attendances"
}

type LeaveRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	LeaveType  string         `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	StartDate  time.Time      `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate    time.Time      `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	Status     string         `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (LeaveRecord) TableName() string {
	return "leaves"
}

// Models lists the records for standalone deployments that migrate the HR
// tables themselves.
func Models() []any {
	return []any{&EmployeeRecord{}, &SalaryRecord{}, &AttendanceRecord{}, &LeaveRecord{}}
}
