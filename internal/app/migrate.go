package app

import (
	"fmt"

	"go-payroll/internal/compensation"
	"go-payroll/internal/directory"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrollbatch"
	"go-payroll/internal/payslip"
	"go-payroll/internal/ratetable"
	"go-payroll/internal/shared/counter"

	"gorm.io/gorm"
)

// migrate creates the payroll tables. The HR master tables belong to the
// HR service and are only created for standalone deployments.
func migrate(db *gorm.DB, withHRTables bool) error {
	models := []any{
		&ratetable.RateTable{},
		&ratetable.TaxBracket{},
		&ratetable.ContributionRule{},
		&ratetable.LevyRule{},
		&compensation.SalaryComponent{},
		&compensation.CompensationEntry{},
		&payslip.Payslip{},
		&payslip.PayslipEntry{},
		&payrollbatch.PayrollBatch{},
		&payrollbatch.BatchOutcome{},
		&counter.SequenceCounter{},
		&kafka.OutboxEvent{},
	}
	models = append(models, loan.Models()...)
	if withHRTables {
		models = append(models, directory.Models()...)
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
