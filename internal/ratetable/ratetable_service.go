package ratetable

import (
	"context"
	"errors"
	"strings"
	"time"

	ratetableerrors "go-payroll/internal/ratetable/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=ratetable_service.go -destination=mock/ratetable_service_mock.go -package=mock
type Service interface {
	Publish(ctx context.Context, actorID string, req PublishRateTableRequest) (RateTableResponse, error)
	GetByYear(ctx context.Context, year int) (RateTableResponse, error)
	List(ctx context.Context) ([]RateTableResponse, error)
	Reload(ctx context.Context, year int) (RateTableResponse, error)
}

type service struct {
	repo   Repository
	cache  *Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache *Cache, logger ...*zap.Logger) Service {
	l := zap.L().Named("ratetable.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ratetable.service")
	}
	return &service{
		repo:   repo,
		cache:  cache,
		logger: l,
		now:    time.Now,
	}
}

func (s *service) Publish(ctx context.Context, actorID string, req PublishRateTableRequest) (RateTableResponse, error) {
	table := fromRequest(req)
	table.PublishedAt = s.now().UTC()
	if id, err := uuid.Parse(actorID); err == nil {
		table.PublishedBy = &id
	}

	if err := Validate(table); err != nil {
		return RateTableResponse{}, err
	}

	exists, err := s.repo.ExistsByYear(ctx, table.Year)
	if err != nil {
		return RateTableResponse{}, err
	}
	if exists {
		return RateTableResponse{}, ratetableerrors.ErrRateTableAlreadyPublished
	}

	if err := s.repo.Create(ctx, &table); err != nil {
		return RateTableResponse{}, mapRepositoryError(err)
	}

	s.cache.Invalidate(table.Year)
	s.logger.Info("rate table published",
		zap.Int("year", table.Year),
		zap.String("currency", table.Currency),
		zap.Int("brackets", len(table.Brackets)),
	)

	return mapToResponse(table), nil
}

func (s *service) GetByYear(ctx context.Context, year int) (RateTableResponse, error) {
	table, err := s.cache.Snapshot(ctx, year)
	if err != nil {
		return RateTableResponse{}, err
	}
	return mapToResponse(table), nil
}

func (s *service) List(ctx context.Context) ([]RateTableResponse, error) {
	tables, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]RateTableResponse, len(tables))
	for i, t := range tables {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) Reload(ctx context.Context, year int) (RateTableResponse, error) {
	table, err := s.cache.Reload(ctx, year)
	if err != nil {
		return RateTableResponse{}, err
	}
	s.logger.Info("rate table reloaded", zap.Int("year", year))
	return mapToResponse(table), nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_rate_table_year" {
		return ratetableerrors.ErrRateTableAlreadyPublished
	}
	return err
}

func fromRequest(req PublishRateTableRequest) RateTable {
	table := RateTable{
		ID:       uuid.New(),
		Year:     req.Year,
		Currency: strings.ToUpper(strings.TrimSpace(req.Currency)),
		Contribution: ContributionRule{
			EmployeeRate: req.Contribution.EmployeeRate,
			EmployerRate: req.Contribution.EmployerRate,
			MinBase:      req.Contribution.MinBase,
			MaxBase:      req.Contribution.MaxBase,
		},
		Levy: LevyRule{PercentOfTax: req.Levy.PercentOfTax},
	}

	table.Brackets = make([]TaxBracket, len(req.Brackets))
	for i, b := range req.Brackets {
		bracket := TaxBracket{
			ID:          uuid.New(),
			RateTableID: table.ID,
			Position:    i + 1,
			MinIncome:   b.MinIncome,
			Rate:        b.Rate,
			FixedAmount: b.FixedAmount,
		}
		if b.MaxIncome != nil {
			bracket.MaxIncome = decimal.NewNullDecimal(*b.MaxIncome)
		}
		table.Brackets[i] = bracket
	}
	return table
}

func mapToResponse(t RateTable) RateTableResponse {
	resp := RateTableResponse{
		ID:          t.ID.String(),
		Year:        t.Year,
		Currency:    t.Currency,
		PublishedAt: t.PublishedAt.Format(time.RFC3339),
		Contribution: ContributionRuleRequest{
			EmployeeRate: t.Contribution.EmployeeRate,
			EmployerRate: t.Contribution.EmployerRate,
			MinBase:      t.Contribution.MinBase,
			MaxBase:      t.Contribution.MaxBase,
		},
		Levy:     LevyRuleRequest{PercentOfTax: t.Levy.PercentOfTax},
		Brackets: make([]TaxBracketResponse, len(t.Brackets)),
	}
	if t.PublishedBy != nil {
		v := t.PublishedBy.String()
		resp.PublishedBy = &v
	}
	for i, b := range t.Brackets {
		br := TaxBracketResponse{
			Position:    b.Position,
			MinIncome:   b.MinIncome,
			Rate:        b.Rate,
			FixedAmount: b.FixedAmount,
		}
		if b.MaxIncome.Valid {
			v := b.MaxIncome.Decimal
			br.MaxIncome = &v
		}
		resp.Brackets[i] = br
	}
	return resp
}
