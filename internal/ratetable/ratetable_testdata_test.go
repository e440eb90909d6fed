package ratetable_test

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-payroll/internal/ratetable"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func nd(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(v))
}

// sampleTable uses annual brackets 0-300 at 0%, 300-1500 at 20%,
// 1500-3000 at 30% and above 3000 at 35%.
func sampleTable(year int) ratetable.RateTable {
	id := uuid.New()
	return ratetable.RateTable{
		ID:       id,
		Year:     year,
		Currency: "EUR",
		Brackets: []ratetable.TaxBracket{
			{RateTableID: id, Position: 1, MinIncome: d("0"), MaxIncome: nd("300"), Rate: d("0")},
			{RateTableID: id, Position: 2, MinIncome: d("300"), MaxIncome: nd("1500"), Rate: d("0.20")},
			{RateTableID: id, Position: 3, MinIncome: d("1500"), MaxIncome: nd("3000"), Rate: d("0.30")},
			{RateTableID: id, Position: 4, MinIncome: d("3000"), Rate: d("0.35")},
		},
		Contribution: ratetable.ContributionRule{
			EmployeeRate: d("0.035"),
			EmployerRate: d("0.065"),
			MinBase:      d("0"),
			MaxBase:      d("700"),
		},
		Levy: ratetable.LevyRule{PercentOfTax: d("0.03")},
	}
}
