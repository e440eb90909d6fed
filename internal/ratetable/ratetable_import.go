package ratetable

import (
	"fmt"

	ratetableerrors "go-payroll/internal/ratetable/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// importFile is the on-disk layout read by cmd/importer. Money and rates
// are quoted strings so that no value passes through float64.
type importFile struct {
	RateTables []struct {
		Year     int    `yaml:"year"`
		Currency string `yaml:"currency"`
		Brackets []struct {
			MinIncome   string  `yaml:"min_income"`
			MaxIncome   *string `yaml:"max_income"`
			Rate        string  `yaml:"rate"`
			FixedAmount string  `yaml:"fixed_amount"`
		} `yaml:"brackets"`
		Contribution struct {
			EmployeeRate string `yaml:"employee_rate"`
			EmployerRate string `yaml:"employer_rate"`
			MinBase      string `yaml:"min_base"`
			MaxBase      string `yaml:"max_base"`
		} `yaml:"contribution"`
		Levy struct {
			PercentOfTax string `yaml:"percent_of_tax"`
		} `yaml:"levy"`
	} `yaml:"rate_tables"`
}

// ParseImportFile decodes a YAML rate table document into publish requests.
func ParseImportFile(data []byte) ([]PublishRateTableRequest, error) {
	var file importFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperror.WithDetail(ratetableerrors.ErrInvalidImportFile, err)
	}
	if len(file.RateTables) == 0 {
		return nil, apperror.WithDetail(ratetableerrors.ErrInvalidImportFile, fmt.Errorf("no rate_tables found"))
	}

	reqs := make([]PublishRateTableRequest, 0, len(file.RateTables))
	for _, t := range file.RateTables {
		p := &decimalParser{year: t.Year}
		req := PublishRateTableRequest{
			Year:     t.Year,
			Currency: t.Currency,
			Contribution: ContributionRuleRequest{
				EmployeeRate: p.parse("contribution.employee_rate", t.Contribution.EmployeeRate),
				EmployerRate: p.parse("contribution.employer_rate", t.Contribution.EmployerRate),
				MinBase:      p.parse("contribution.min_base", t.Contribution.MinBase),
				MaxBase:      p.parse("contribution.max_base", t.Contribution.MaxBase),
			},
			Levy: LevyRuleRequest{PercentOfTax: p.parse("levy.percent_of_tax", t.Levy.PercentOfTax)},
		}
		for i, b := range t.Brackets {
			br := TaxBracketRequest{
				MinIncome:   p.parse(fmt.Sprintf("brackets[%d].min_income", i), b.MinIncome),
				Rate:        p.parse(fmt.Sprintf("brackets[%d].rate", i), b.Rate),
				FixedAmount: p.parse(fmt.Sprintf("brackets[%d].fixed_amount", i), b.FixedAmount),
			}
			if b.MaxIncome != nil {
				v := p.parse(fmt.Sprintf("brackets[%d].max_income", i), *b.MaxIncome)
				br.MaxIncome = &v
			}
			req.Brackets = append(req.Brackets, br)
		}
		if p.err != nil {
			return nil, apperror.WithDetail(ratetableerrors.ErrInvalidImportFile, p.err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

type decimalParser struct {
	year int
	err  error
}

// parse treats an empty value as zero and keeps the first error seen.
func (p *decimalParser) parse(field, value string) decimal.Decimal {
	if p.err != nil || value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		p.err = fmt.Errorf("year %d %s: %w", p.year, field, err)
		return decimal.Zero
	}
	return d
}
