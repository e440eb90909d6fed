package ratetable

import "github.com/shopspring/decimal"

type TaxBracketRequest struct {
	MinIncome   decimal.Decimal  `json:"min_income"`
	MaxIncome   *decimal.Decimal `json:"max_income"`
	Rate        decimal.Decimal  `json:"rate"`
	FixedAmount decimal.Decimal  `json:"fixed_amount"`
}

type ContributionRuleRequest struct {
	EmployeeRate decimal.Decimal `json:"employee_rate"`
	EmployerRate decimal.Decimal `json:"employer_rate"`
	MinBase      decimal.Decimal `json:"min_base"`
	MaxBase      decimal.Decimal `json:"max_base"`
}

type LevyRuleRequest struct {
	PercentOfTax decimal.Decimal `json:"percent_of_tax"`
}

type PublishRateTableRequest struct {
	Year         int                     `json:"year" binding:"required,min=1900,max=9999"`
	Currency     string                  `json:"currency" binding:"required,len=3"`
	Brackets     []TaxBracketRequest     `json:"brackets" binding:"required,min=1"`
	Contribution ContributionRuleRequest `json:"contribution"`
	Levy         LevyRuleRequest         `json:"levy"`
}

type TaxBracketResponse struct {
	Position    int              `json:"position"`
	MinIncome   decimal.Decimal  `json:"min_income"`
	MaxIncome   *decimal.Decimal `json:"max_income"`
	Rate        decimal.Decimal  `json:"rate"`
	FixedAmount decimal.Decimal  `json:"fixed_amount"`
}

type RateTableResponse struct {
	ID           string                  `json:"id"`
	Year         int                     `json:"year"`
	Currency     string                  `json:"currency"`
	PublishedAt  string                  `json:"published_at"`
	PublishedBy  *string                 `json:"published_by,omitempty"`
	Brackets     []TaxBracketResponse    `json:"brackets"`
	Contribution ContributionRuleRequest `json:"contribution"`
	Levy         LevyRuleRequest         `json:"levy"`
}
