package ratetable

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ratetable_repo.go -destination=mock/ratetable_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, table *RateTable) error
	FindByYear(ctx context.Context, year int) (*RateTable, error)
	FindAll(ctx context.Context) ([]RateTable, error)
	ExistsByYear(ctx context.Context, year int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts the table and its brackets in one gorm transaction.
func (r *repository) Create(ctx context.Context, table *RateTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *repository) FindByYear(ctx context.Context, year int) (*RateTable, error) {
	var table RateTable
	err := r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("year = ?", year).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) FindAll(ctx context.Context) ([]RateTable, error) {
	var tables []RateTable
	err := r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("year DESC").
		Find(&tables).Error
	return tables, err
}

func (r *repository) ExistsByYear(ctx context.Context, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RateTable{}).
		Where("year = ?", year).
		Count(&count).Error
	return count > 0, err
}
