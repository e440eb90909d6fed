package calculator

import (
	"fmt"

	calculatorerrors "go-payroll/internal/calculator/errors"
	"go-payroll/internal/ratetable"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

// Input carries the monthly figures of one employee, in the employee's
// currency.
type Input struct {
	BasicSalary     decimal.Decimal
	GrossEarnings   decimal.Decimal
	TaxableEarnings decimal.Decimal
	OtherDeductions decimal.Decimal

	// ExchangeRate converts employee currency into the table currency.
	// Zero means both use the same currency.
	ExchangeRate decimal.Decimal
}

type Result struct {
	GrossEarnings        decimal.Decimal
	TaxableEarnings      decimal.Decimal
	NonTaxableEarnings   decimal.Decimal
	ContributionEmployee decimal.Decimal
	ContributionEmployer decimal.Decimal
	TaxableIncome        decimal.Decimal
	IncomeTax            decimal.Decimal
	Levy                 decimal.Decimal
	OtherDeductions      decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal
}

// Compute runs the statutory pipeline in its fixed order: contribution,
// taxable income, tax, levy, net.
func Compute(in Input, table ratetable.RateTable) (Result, error) {
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"basic salary", in.BasicSalary},
		{"gross earnings", in.GrossEarnings},
		{"taxable earnings", in.TaxableEarnings},
		{"other deductions", in.OtherDeductions},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return Result{}, apperror.WithDetail(calculatorerrors.ErrNegativeAmount, fmt.Errorf("%s %s", a.name, a.value))
		}
	}
	if in.TaxableEarnings.GreaterThan(in.GrossEarnings) {
		return Result{}, calculatorerrors.ErrTaxableExceedsGross
	}
	if in.ExchangeRate.IsNegative() {
		return Result{}, calculatorerrors.ErrInvalidExchangeRate
	}

	rate := in.ExchangeRate
	basic := ConvertIn(in.BasicSalary, rate)
	taxable := ConvertIn(in.TaxableEarnings, rate)

	employee, employer, err := Contribution(basic, table.Contribution)
	if err != nil {
		return Result{}, err
	}

	taxableIncome, err := TaxableIncome(taxable, employee)
	if err != nil {
		return Result{}, err
	}

	tax, err := ProgressiveTax(taxableIncome, table)
	if err != nil {
		return Result{}, err
	}

	levy, err := Levy(tax, table)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		GrossEarnings:        in.GrossEarnings,
		TaxableEarnings:      in.TaxableEarnings,
		NonTaxableEarnings:   in.GrossEarnings.Sub(in.TaxableEarnings),
		ContributionEmployee: ConvertOut(employee, rate),
		ContributionEmployer: ConvertOut(employer, rate),
		TaxableIncome:        ConvertOut(taxableIncome, rate),
		IncomeTax:            ConvertOut(tax, rate),
		Levy:                 ConvertOut(levy, rate),
		OtherDeductions:      in.OtherDeductions,
	}
	res.TotalDeductions = res.ContributionEmployee.
		Add(res.IncomeTax).
		Add(res.Levy).
		Add(res.OtherDeductions)
	res.NetPay = res.GrossEarnings.Sub(res.TotalDeductions)

	return res, nil
}
