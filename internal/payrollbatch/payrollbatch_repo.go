package payrollbatch

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payrollbatch_repo.go -destination=mock/payrollbatch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, batch *PayrollBatch) error
	Update(ctx context.Context, batch *PayrollBatch) error
	CreateOutcomes(ctx context.Context, outcomes []BatchOutcome) error
	FindByID(ctx context.Context, id string) (*PayrollBatch, error)
	FindAll(ctx context.Context, limit, offset int) ([]PayrollBatch, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: dbtx.Bind(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, batch *PayrollBatch) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(batch).Error
}

func (r *repository) Update(ctx context.Context, batch *PayrollBatch) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(batch).Error
}

func (r *repository) CreateOutcomes(ctx context.Context, outcomes []BatchOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&outcomes, 200).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollBatch, error) {
	var batch PayrollBatch
	err := r.db.WithContext(ctx).
		Preload("Outcomes", func(db *gorm.DB) *gorm.DB {
			return db.Order("status ASC, created_at ASC")
		}).
		First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]PayrollBatch, int64, error) {
	var (
		batches []PayrollBatch
		total   int64
	)

	query := r.db.WithContext(ctx).Model(&PayrollBatch{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("started_at DESC").Limit(limit).Offset(offset).Find(&batches).Error
	return batches, total, err
}
