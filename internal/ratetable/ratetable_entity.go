package ratetable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateTable is the published, immutable statutory configuration of one
// tax year.
type RateTable struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Year         int              `gorm:"not null;uniqueIndex:uq_rate_table_year"`
	Currency     string           `gorm:"type:varchar(3);not null"`
	Contribution ContributionRule `gorm:"embedded;embeddedPrefix:contribution_"`
	Levy         LevyRule         `gorm:"embedded;embeddedPrefix:levy_"`
	PublishedAt  time.Time        `gorm:"not null"`
	PublishedBy  *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt    time.Time

	Brackets []TaxBracket `gorm:"foreignKey:RateTableID;constraint:OnDelete:CASCADE"`
}

// TaxBracket covers annual income in (MinIncome, MaxIncome]. A NULL
// MaxIncome marks the open top bracket.
//
// FixedAmount is a flat annual surcharge added once for every bracket the
// income reaches into, on top of Rate applied to the portion inside the
// bracket. It is not the accumulated tax of the lower brackets: a table
// published as "base amount plus rate over threshold" is imported with
// FixedAmount zero, since ProgressiveTax already sums the lower steps.
type TaxBracket struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RateTableID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position    int                 `gorm:"not null"`
	MinIncome   decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	MaxIncome   decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Rate        decimal.Decimal     `gorm:"type:numeric(9,6);not null"`
	FixedAmount decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
}

type ContributionRule struct {
	EmployeeRate decimal.Decimal `gorm:"type:numeric(9,6);not null;default:0"`
	EmployerRate decimal.Decimal `gorm:"type:numeric(9,6);not null;default:0"`
	MinBase      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	MaxBase      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

type LevyRule struct {
	PercentOfTax decimal.Decimal `gorm:"type:numeric(9,6);not null;default:0"`
}

// IsOpen reports whether b is the top bracket.
func (b TaxBracket) IsOpen() bool {
	return !b.MaxIncome.Valid
}

// Width is the size of the bracket; ok is false for the open bracket.
func (b TaxBracket) Width() (width decimal.Decimal, ok bool) {
	if b.IsOpen() {
		return decimal.Zero, false
	}
	return b.MaxIncome.Decimal.Sub(b.MinIncome), true
}

// BracketFor returns the bracket an annual income falls into. Income that
// sits exactly on a boundary belongs to the lower bracket.
func (t RateTable) BracketFor(annualIncome decimal.Decimal) (TaxBracket, bool) {
	if len(t.Brackets) == 0 {
		return TaxBracket{}, false
	}
	if !annualIncome.GreaterThan(t.Brackets[0].MinIncome) {
		return t.Brackets[0], true
	}
	for _, b := range t.Brackets {
		if !annualIncome.GreaterThan(b.MinIncome) {
			continue
		}
		if b.IsOpen() || annualIncome.LessThanOrEqual(b.MaxIncome.Decimal) {
			return b, true
		}
	}
	return TaxBracket{}, false
}

// Clone returns a copy that shares no slices with t.
func (t RateTable) Clone() RateTable {
	cp := t
	if t.PublishedBy != nil {
		by := *t.PublishedBy
		cp.PublishedBy = &by
	}
	cp.Brackets = make([]TaxBracket, len(t.Brackets))
	copy(cp.Brackets, t.Brackets)
	return cp
}
