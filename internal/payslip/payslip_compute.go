package payslip

import (
	"go-payroll/internal/calculator"
	"go-payroll/internal/compensation"
	"go-payroll/internal/loan"
	"go-payroll/internal/ratetable"

	"github.com/shopspring/decimal"
)

const (
	basicComponentCode = "BASIC"
	basicComponentName = "Basic Salary"
)

type computeInput struct {
	Employee     Employee
	Entries      []compensation.CompensationEntry
	Installments []loan.Installment
	Attendance   AttendanceAdjustments
	Table        ratetable.RateTable
	Statutory    compensation.StatutoryCatalog
	ExchangeRate decimal.Decimal
}

type computation struct {
	Result          calculator.Result
	BasicSalary     decimal.Decimal
	TotalAllowances decimal.Decimal
	Entries         []PayslipEntry
}

// computePayslip resolves the employee's components into line items and runs
// the statutory pipeline over them. Basic salary is never pro-rated. Loan
// installments are post-tax deductions and never touch taxable income.
func computePayslip(in computeInput) (computation, error) {
	basic := calculator.Round2(in.Employee.BasicSalary)

	resolved, err := compensation.Resolve(in.Entries, basic)
	if err != nil {
		return computation{}, err
	}

	factor := in.Attendance.ProRateFactor()

	var (
		gross       = basic
		taxable     = basic
		allowances  = decimal.Zero
		deductions  = decimal.Zero
		earningRows []compensation.ResolvedEntry
		deductRows  []compensation.ResolvedEntry
	)
	for _, r := range resolved {
		if r.Component.Statutory {
			continue
		}
		if r.Component.CalculationType == compensation.CalcPerOvertimeHour {
			r = r.WithQuantity(in.Attendance.OvertimeHours)
		}
		if r.Component.ProRated {
			r = r.Scale(factor)
		}
		if r.Amount.IsZero() {
			continue
		}

		if r.Component.IsEarning() {
			gross = gross.Add(r.Amount)
			if r.Component.Taxable {
				taxable = taxable.Add(r.Amount)
			}
			if r.Component.Kind == compensation.KindAllowance {
				allowances = allowances.Add(r.Amount)
			}
			earningRows = append(earningRows, r)
			continue
		}
		deductions = deductions.Add(r.Amount)
		deductRows = append(deductRows, r)
	}

	var loanRows []loan.Installment
	for _, inst := range in.Installments {
		if !inst.Amount.IsPositive() {
			continue
		}
		deductions = deductions.Add(inst.Amount)
		loanRows = append(loanRows, inst)
	}

	result, err := calculator.Compute(calculator.Input{
		BasicSalary:     basic,
		GrossEarnings:   gross,
		TaxableEarnings: taxable,
		OtherDeductions: deductions,
		ExchangeRate:    in.ExchangeRate,
	}, in.Table)
	if err != nil {
		return computation{}, err
	}

	entries := make([]PayslipEntry, 0, len(earningRows)+len(deductRows)+len(loanRows)+len(compensation.StatutoryKinds)+1)
	entries = append(entries, PayslipEntry{
		ComponentCode: basicComponentCode,
		ComponentName: basicComponentName,
		Kind:          string(compensation.KindEarning),
		Amount:        basic,
	})
	for _, r := range earningRows {
		entries = append(entries, entryFromResolved(r, r.Amount))
	}
	for _, r := range deductRows {
		entries = append(entries, entryFromResolved(r, r.Amount.Neg()))
	}
	for _, inst := range loanRows {
		loanID := inst.LoanID
		entries = append(entries, PayslipEntry{
			LoanID:        &loanID,
			ComponentCode: inst.ComponentCode(),
			ComponentName: inst.ComponentName(),
			Kind:          string(compensation.KindDeduction),
			Amount:        inst.Amount.Neg(),
		})
	}

	statutory := []struct {
		kind   compensation.StatutoryKind
		amount decimal.Decimal
		rate   *decimal.Decimal
	}{
		{compensation.StatutorySocialSecurity, result.ContributionEmployee, &in.Table.Contribution.EmployeeRate},
		{compensation.StatutoryIncomeTax, result.IncomeTax, nil},
		{compensation.StatutoryLevy, result.Levy, &in.Table.Levy.PercentOfTax},
	}
	for _, s := range statutory {
		component, ok := in.Statutory.Get(s.kind)
		if !ok {
			continue
		}
		id := component.ID
		entry := PayslipEntry{
			ComponentID:   &id,
			ComponentCode: component.Code,
			ComponentName: component.Name,
			Kind:          string(compensation.KindDeduction),
			Statutory:     true,
			Amount:        s.amount.Neg(),
		}
		if s.rate != nil {
			entry.Rate = decimal.NewNullDecimal(*s.rate)
		}
		entries = append(entries, entry)
	}

	for i := range entries {
		entries[i].Position = i + 1
	}

	return computation{
		Result:          result,
		BasicSalary:     basic,
		TotalAllowances: allowances,
		Entries:         entries,
	}, nil
}

func entryFromResolved(r compensation.ResolvedEntry, amount decimal.Decimal) PayslipEntry {
	id := r.Component.ID
	entry := PayslipEntry{
		ComponentID:   &id,
		ComponentCode: r.Component.Code,
		ComponentName: r.Component.Name,
		Kind:          string(r.Component.Kind),
		Amount:        amount,
	}
	if r.Quantity != nil {
		entry.Quantity = decimal.NewNullDecimal(*r.Quantity)
	}
	if r.Rate != nil {
		entry.Rate = decimal.NewNullDecimal(*r.Rate)
	}
	return entry
}

// apply copies computed figures onto the payslip header and replaces its
// entries.
func (c computation) apply(p *Payslip, attendance AttendanceAdjustments) {
	p.BasicSalary = c.BasicSalary
	p.GrossEarnings = c.Result.GrossEarnings
	p.TaxableEarnings = c.Result.TaxableEarnings
	p.NonTaxableEarnings = c.Result.NonTaxableEarnings
	p.TotalAllowances = c.TotalAllowances
	p.OtherDeductions = c.Result.OtherDeductions
	p.TotalDeductions = c.Result.TotalDeductions
	p.TaxableIncome = c.Result.TaxableIncome
	p.IncomeTax = c.Result.IncomeTax
	p.ContributionEmployee = c.Result.ContributionEmployee
	p.ContributionEmployer = c.Result.ContributionEmployer
	p.Levy = c.Result.Levy
	p.NetPay = c.Result.NetPay
	p.DaysWorked = attendance.DaysWorked
	p.UnpaidAbsenceDays = attendance.UnpaidAbsenceDays
	p.OvertimeHours = attendance.OvertimeHours
	p.Entries = c.Entries
}
