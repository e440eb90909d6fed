package ratetable

import (
	"fmt"

	ratetableerrors "go-payroll/internal/ratetable/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Validate checks the structural invariants a table must satisfy before it
// can be published. Brackets are expected in Position order.
func Validate(t RateTable) error {
	if t.Year < 1900 || t.Year > 9999 {
		return ratetableerrors.ErrInvalidYear
	}
	if len(t.Brackets) == 0 {
		return apperror.WithDetail(ratetableerrors.ErrInvalidBrackets, fmt.Errorf("at least one bracket is required"))
	}
	if !t.Brackets[0].MinIncome.IsZero() {
		return apperror.WithDetail(ratetableerrors.ErrInvalidBrackets, fmt.Errorf("first bracket must start at 0"))
	}

	for i, b := range t.Brackets {
		if !validRate(b.Rate) {
			return apperror.WithDetail(ratetableerrors.ErrInvalidRate, fmt.Errorf("bracket %d rate %s", i, b.Rate))
		}
		if b.FixedAmount.IsNegative() {
			return apperror.WithDetail(ratetableerrors.ErrInvalidBrackets, fmt.Errorf("bracket %d fixed amount is negative", i))
		}

		last := i == len(t.Brackets)-1
		if b.IsOpen() != last {
			return apperror.WithDetail(ratetableerrors.ErrInvalidBrackets, fmt.Errorf("exactly one open bracket is allowed and it must be last"))
		}
		if !b.IsOpen() && !b.MaxIncome.Decimal.GreaterThan(b.MinIncome) {
			return apperror.WithDetail(ratetableerrors.ErrInvalidBrackets, fmt.Errorf("bracket %d max must exceed min", i))
		}
		if i > 0 {
			prev := t.Brackets[i-1]
			if !b.MinIncome.Equal(prev.MaxIncome.Decimal) {
				return apperror.WithDetail(ratetableerrors.ErrInvalidBrackets, fmt.Errorf("bracket %d does not start where bracket %d ends", i, i-1))
			}
		}
	}

	c := t.Contribution
	if !validRate(c.EmployeeRate) || !validRate(c.EmployerRate) {
		return apperror.WithDetail(ratetableerrors.ErrInvalidRate, fmt.Errorf("contribution rates"))
	}
	if c.MinBase.IsNegative() || c.MinBase.GreaterThan(c.MaxBase) {
		return ratetableerrors.ErrInvalidContributionBase
	}
	if !validRate(t.Levy.PercentOfTax) {
		return apperror.WithDetail(ratetableerrors.ErrInvalidRate, fmt.Errorf("levy percent of tax"))
	}

	return nil
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(one)
}
