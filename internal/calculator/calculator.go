// Package calculator holds the statutory payroll arithmetic. Every function
// is pure: it reads a rate table snapshot and returns values rounded to two
// decimal places with half-up rounding.
package calculator

import (
	"fmt"

	calculatorerrors "go-payroll/internal/calculator/errors"
	"go-payroll/internal/ratetable"
	ratetableerrors "go-payroll/internal/ratetable/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
)

// Round2 rounds half away from zero, which is half-up for the non-negative
// values handled here.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// ProgressiveTax returns the monthly income tax for a monthly taxable
// income. Each bracket step is rounded before it is accumulated and the
// de-annualized total is rounded once more.
func ProgressiveTax(monthlyTaxable decimal.Decimal, table ratetable.RateTable) (decimal.Decimal, error) {
	if monthlyTaxable.IsNegative() {
		return decimal.Zero, apperror.WithDetail(calculatorerrors.ErrNegativeAmount, fmt.Errorf("taxable income %s", monthlyTaxable))
	}
	if len(table.Brackets) == 0 {
		return decimal.Zero, apperror.WithDetail(ratetableerrors.ErrConfigurationMissing, fmt.Errorf("year %d has no brackets", table.Year))
	}

	annual := monthlyTaxable.Mul(monthsPerYear)
	total := decimal.Zero

	for _, b := range table.Brackets {
		if !annual.GreaterThan(b.MinIncome) {
			break
		}

		portion := annual.Sub(b.MinIncome)
		if width, ok := b.Width(); ok && portion.GreaterThan(width) {
			portion = width
		}

		// FixedAmount is per reached bracket, not a cumulative base.
		step := Round2(portion.Mul(b.Rate)).Add(b.FixedAmount)
		total = total.Add(step)

		if b.IsOpen() {
			break
		}
	}

	return Round2(total.Div(monthsPerYear)), nil
}

// Contribution returns the employee and employer social-security amounts
// for a basic salary. The base is clamped to [MinBase, MaxBase].
func Contribution(basicSalary decimal.Decimal, rule ratetable.ContributionRule) (employee, employer decimal.Decimal, err error) {
	if basicSalary.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.WithDetail(calculatorerrors.ErrNegativeAmount, fmt.Errorf("basic salary %s", basicSalary))
	}

	base := basicSalary
	if base.LessThan(rule.MinBase) {
		base = rule.MinBase
	}
	if base.GreaterThan(rule.MaxBase) {
		base = rule.MaxBase
	}

	return Round2(base.Mul(rule.EmployeeRate)), Round2(base.Mul(rule.EmployerRate)), nil
}

// Levy is always derived from the already computed income tax.
func Levy(incomeTax decimal.Decimal, table ratetable.RateTable) (decimal.Decimal, error) {
	if incomeTax.IsNegative() {
		return decimal.Zero, apperror.WithDetail(calculatorerrors.ErrNegativeAmount, fmt.Errorf("income tax %s", incomeTax))
	}
	return Round2(incomeTax.Mul(table.Levy.PercentOfTax)), nil
}

// TaxableIncome subtracts pre-tax deductions, flooring at zero.
func TaxableIncome(taxableEarnings, preTaxDeductions decimal.Decimal) (decimal.Decimal, error) {
	if taxableEarnings.IsNegative() || preTaxDeductions.IsNegative() {
		return decimal.Zero, apperror.WithDetail(
			calculatorerrors.ErrNegativeAmount,
			fmt.Errorf("taxable %s, pre-tax %s", taxableEarnings, preTaxDeductions),
		)
	}
	income := taxableEarnings.Sub(preTaxDeductions)
	if income.IsNegative() {
		return decimal.Zero, nil
	}
	return income, nil
}

// ConvertIn converts an amount in the employee's currency to the rate
// table currency. rate is table units per employee unit.
func ConvertIn(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() || rate.Equal(one) {
		return amount
	}
	return Round2(amount.Mul(rate))
}

// ConvertOut is the inverse of ConvertIn.
func ConvertOut(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() || rate.Equal(one) {
		return amount
	}
	return Round2(amount.Div(rate))
}
