package ratetable

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	ratetableerrors "go-payroll/internal/ratetable/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Lookup is the read-side view of published rate tables used by the
// calculator and the payslip generator.
//
//go:generate mockgen -source=ratetable_cache.go -destination=mock/ratetable_lookup_mock.go -package=mock
type Lookup interface {
	Snapshot(ctx context.Context, year int) (RateTable, error)
	LookupBracket(ctx context.Context, year int, annualIncome decimal.Decimal) (TaxBracket, error)
	ContributionCeiling(ctx context.Context, year int) (ContributionRule, error)
	LevyRate(ctx context.Context, year int) (decimal.Decimal, error)
}

type Loader interface {
	FindByYear(ctx context.Context, year int) (*RateTable, error)
}

// Cache holds published tables for the life of the process. Entries are
// only dropped through Reload or Invalidate.
type Cache struct {
	loader Loader
	logger *zap.Logger

	mu     sync.RWMutex
	tables map[int]RateTable
	group  singleflight.Group
}

func NewCache(loader Loader, logger ...*zap.Logger) *Cache {
	l := zap.L().Named("ratetable.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ratetable.cache")
	}
	return &Cache{
		loader: loader,
		logger: l,
		tables: make(map[int]RateTable),
	}
}

func (c *Cache) Snapshot(ctx context.Context, year int) (RateTable, error) {
	c.mu.RLock()
	table, ok := c.tables[year]
	c.mu.RUnlock()
	if ok {
		return table.Clone(), nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		return c.load(ctx, year)
	})
	if err != nil {
		return RateTable{}, err
	}
	return v.(RateTable).Clone(), nil
}

func (c *Cache) LookupBracket(ctx context.Context, year int, annualIncome decimal.Decimal) (TaxBracket, error) {
	table, err := c.Snapshot(ctx, year)
	if err != nil {
		return TaxBracket{}, err
	}
	bracket, ok := table.BracketFor(annualIncome)
	if !ok {
		return TaxBracket{}, apperror.WithDetail(
			ratetableerrors.ErrConfigurationMissing,
			fmt.Errorf("no bracket covers income %s in %d", annualIncome, year),
		)
	}
	return bracket, nil
}

func (c *Cache) ContributionCeiling(ctx context.Context, year int) (ContributionRule, error) {
	table, err := c.Snapshot(ctx, year)
	if err != nil {
		return ContributionRule{}, err
	}
	return table.Contribution, nil
}

func (c *Cache) LevyRate(ctx context.Context, year int) (decimal.Decimal, error) {
	table, err := c.Snapshot(ctx, year)
	if err != nil {
		return decimal.Zero, err
	}
	return table.Levy.PercentOfTax, nil
}

// Reload drops the cached table for year and loads it again.
func (c *Cache) Reload(ctx context.Context, year int) (RateTable, error) {
	c.Invalidate(year)
	return c.Snapshot(ctx, year)
}

func (c *Cache) Invalidate(year int) {
	c.mu.Lock()
	delete(c.tables, year)
	c.mu.Unlock()
	c.group.Forget(strconv.Itoa(year))
}

func (c *Cache) load(ctx context.Context, year int) (RateTable, error) {
	c.mu.RLock()
	cached, ok := c.tables[year]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	table, err := c.loader.FindByYear(ctx, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RateTable{}, apperror.WithDetail(
				ratetableerrors.ErrConfigurationMissing,
				fmt.Errorf("year %d", year),
			)
		}
		return RateTable{}, err
	}
	if table == nil {
		return RateTable{}, apperror.WithDetail(ratetableerrors.ErrConfigurationMissing, fmt.Errorf("year %d", year))
	}

	stored := table.Clone()
	c.mu.Lock()
	c.tables[year] = stored
	c.mu.Unlock()

	c.logger.Info("rate table loaded", zap.Int("year", year), zap.Int("brackets", len(stored.Brackets)))
	return stored, nil
}
