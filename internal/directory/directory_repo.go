package directory

import (
	"context"
	"errors"
	"time"

	directoryerrors "go-payroll/internal/directory/errors"
	"go-payroll/internal/payslip"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	attendancePresent = "PRESENT"
	attendanceLate    = "LATE"

	leaveTypeUnpaid = "UNPAID"
	leaveApproved   = "APPROVED"

	standardWorkdayHours = 8
)

// Directory reads employee master data, salaries and attendance. It
// satisfies payslip.EmployeeDirectory and payslip.AttendanceFeed.
type Directory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Directory {
	return &Directory{db: db, now: time.Now}
}

func (d *Directory) GetEmployee(ctx context.Context, id uuid.UUID) (payslip.Employee, error) {
	var rec EmployeeRecord
	if err := d.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payslip.Employee{}, directoryerrors.ErrEmployeeNotFound
		}
		return payslip.Employee{}, err
	}

	var salary SalaryRecord
	err := d.db.WithContext(ctx).
		Where("employee_id = ? AND effective_date <= ?", id, d.now()).
		Order("effective_date DESC, created_at DESC").
		First(&salary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payslip.Employee{}, directoryerrors.ErrSalaryNotConfigured
		}
		return payslip.Employee{}, err
	}

	return toEmployee(rec, salary.BaseSalary), nil
}

func (d *Directory) ListEmployees(ctx context.Context, filter payslip.EmployeeFilter) ([]payslip.Employee, error) {
	query := d.db.WithContext(ctx).Model(&EmployeeRecord{})
	if len(filter.EmployeeIDs) > 0 {
		query = query.Where("id IN ?", filter.EmployeeIDs)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}

	var recs []EmployeeRecord
	if err := query.Order("full_name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []payslip.Employee{}, nil
	}

	ids := make([]uuid.UUID, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
	}

	var salaries []SalaryRecord
	err := d.db.WithContext(ctx).Raw(`
SELECT DISTINCT ON (employee_id) employee_id, base_salary, effective_date
FROM employee_salaries
WHERE employee_id IN ? AND effective_date <= ?
ORDER BY employee_id, effective_date DESC, created_at DESC
`, ids, d.now()).Scan(&salaries).Error
	if err != nil {
		return nil, err
	}

	basic := make(map[uuid.UUID]decimal.Decimal, len(salaries))
	for _, s := range salaries {
		basic[s.EmployeeID] = s.BaseSalary
	}

	employees := make([]payslip.Employee, len(recs))
	for i, rec := range recs {
		employees[i] = toEmployee(rec, basic[rec.ID])
	}
	return employees, nil
}

type attendanceSummary struct {
	DaysWorked    int
	OvertimeHours decimal.Decimal
}

// GetAttendanceAdjustments counts attended days and overtime beyond the
// standard workday in [start, end], plus approved unpaid leave days that
// fall inside the period.
func (d *Directory) GetAttendanceAdjustments(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (payslip.AttendanceAdjustments, error) {
	var summary attendanceSummary
	err := d.db.WithContext(ctx).Raw(`
SELECT
	COUNT(DISTINCT attendance_date) AS days_worked,
	COALESCE(SUM(GREATEST(EXTRACT(EPOCH FROM (clock_out - clock_in)) / 3600.0 - ?, 0)), 0) AS overtime_hours
FROM attendances
WHERE employee_id = ?
	AND attendance_date BETWEEN ? AND ?
	AND status IN ?
	AND deleted_at IS NULL
`, standardWorkdayHours, employeeID, start, end, []string{attendancePresent, attendanceLate}).Scan(&summary).Error
	if err != nil {
		return payslip.AttendanceAdjustments{}, err
	}

	var leaves []LeaveRecord
	err = d.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type = ? AND status = ?", employeeID, leaveTypeUnpaid, leaveApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&leaves).Error
	if err != nil {
		return payslip.AttendanceAdjustments{}, err
	}

	return payslip.AttendanceAdjustments{
		DaysWorked:        summary.DaysWorked,
		UnpaidAbsenceDays: unpaidDaysWithin(leaves, start, end),
		OvertimeHours:     summary.OvertimeHours.Round(2),
	}, nil
}

func unpaidDaysWithin(leaves []LeaveRecord, start, end time.Time) int {
	days := 0
	for _, l := range leaves {
		from, to := l.StartDate, l.EndDate
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		if to.Before(from) {
			continue
		}
		days += int(to.Sub(from).Hours()/24) + 1
	}
	return days
}

func toEmployee(rec EmployeeRecord, basic decimal.Decimal) payslip.Employee {
	return payslip.Employee{
		ID:           rec.ID,
		FullName:     rec.FullName,
		Email:        rec.Email,
		BasicSalary:  basic,
		Currency:     rec.Currency,
		HireDate:     rec.HireDate,
		Active:       rec.Active,
		DepartmentID: rec.DepartmentID,
	}
}
