package compensation

import (
	"fmt"

	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolvedEntry is an entry turned into a monthly amount. Rate is set for
// percentage and per-overtime-hour components; Quantity only once hours
// are applied.
type ResolvedEntry struct {
	EntryID   uuid.UUID
	Component SalaryComponent
	Amount    decimal.Decimal
	Quantity  *decimal.Decimal
	Rate      *decimal.Decimal
}

// Resolve turns active entries into amounts. Percentage components are
// applied to basicSalary as supplied at read time. Per-overtime-hour
// components resolve to zero until WithQuantity is applied.
//
// Entries must all be active on the same date, so two entries for one
// component mean the ledger holds overlapping ranges; that fails with
// OverlappingEntry instead of paying the component twice.
func Resolve(entries []CompensationEntry, basicSalary decimal.Decimal) ([]ResolvedEntry, error) {
	resolved := make([]ResolvedEntry, 0, len(entries))
	seen := make(map[string]uuid.UUID, len(entries))
	for _, e := range entries {
		if e.Component == nil {
			return nil, apperror.WithDetail(compensationerrors.ErrComponentNotFound, fmt.Errorf("entry %s has no component loaded", e.ID))
		}

		key := componentKey(e)
		if other, dup := seen[key]; dup {
			return nil, apperror.WithDetail(
				compensationerrors.ErrOverlappingEntry,
				fmt.Errorf("component %s has active entries %s and %s", e.Component.Code, other, e.ID),
			)
		}
		seen[key] = e.ID

		r := ResolvedEntry{EntryID: e.ID, Component: *e.Component}
		switch e.Component.CalculationType {
		case CalcPercentage:
			rate := e.Percentage
			r.Rate = &rate
			r.Amount = basicSalary.Mul(rate).Round(2)
		case CalcPerOvertimeHour:
			rate := e.Amount
			r.Rate = &rate
			r.Amount = decimal.Zero
		default:
			r.Amount = e.Amount
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}

func componentKey(e CompensationEntry) string {
	if e.ComponentID != uuid.Nil {
		return e.ComponentID.String()
	}
	if e.Component.ID != uuid.Nil {
		return e.Component.ID.String()
	}
	return "code:" + e.Component.Code
}

// WithQuantity applies a unit count (overtime hours) to a per-unit entry.
func (r ResolvedEntry) WithQuantity(quantity decimal.Decimal) ResolvedEntry {
	if r.Rate == nil {
		return r
	}
	q := quantity
	r.Quantity = &q
	r.Amount = quantity.Mul(*r.Rate).Round(2)
	return r
}

// Scale multiplies the amount by factor (pro-rating).
func (r ResolvedEntry) Scale(factor decimal.Decimal) ResolvedEntry {
	r.Amount = r.Amount.Mul(factor).Round(2)
	return r
}
