package compensation

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateComponent(ctx context.Context, component *SalaryComponent) error
	FindComponents(ctx context.Context) ([]SalaryComponent, error)
	FindComponentByID(ctx context.Context, id string) (*SalaryComponent, error)
	FindStatutoryComponents(ctx context.Context) ([]SalaryComponent, error)
	LockEntries(ctx context.Context, employeeID, componentID uuid.UUID) ([]CompensationEntry, error)
	CreateEntry(ctx context.Context, entry *CompensationEntry) error
	UpdateEntry(ctx context.Context, entry *CompensationEntry) error
	FindEntryByID(ctx context.Context, id string) (*CompensationEntry, error)
	FindActiveEntries(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]CompensationEntry, error)
	FindEntriesByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CompensationEntry, error)
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

func (r *repository) CreateComponent(ctx context.Context, component *SalaryComponent) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *repository) FindComponents(ctx context.Context) ([]SalaryComponent, error) {
	var components []SalaryComponent
	err := r.db.WithContext(ctx).Order("code ASC").Find(&components).Error
	return components, err
}

func (r *repository) FindComponentByID(ctx context.Context, id string) (*SalaryComponent, error) {
	var component SalaryComponent
	err := r.db.WithContext(ctx).First(&component, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *repository) FindStatutoryComponents(ctx context.Context) ([]SalaryComponent, error) {
	var components []SalaryComponent
	err := r.db.WithContext(ctx).
		Where("statutory = ? AND active = ?", true, true).
		Order("code ASC").
		Find(&components).Error
	return components, err
}

// LockEntries takes a transaction-scoped advisory lock for the pair and
// returns its entries locked FOR UPDATE. Must run inside WithTx.
func (r *repository) LockEntries(ctx context.Context, employeeID, componentID uuid.UUID) ([]CompensationEntry, error) {
	db := r.db.WithContext(ctx)
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", employeeID.String()+":"+componentID.String()).Error; err != nil {
		return nil, err
	}

	var entries []CompensationEntry
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND component_id = ?", employeeID, componentID).
		Order("effective_from ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) CreateEntry(ctx context.Context, entry *CompensationEntry) error {
	return r.db.WithContext(ctx).Omit("Component").Create(entry).Error
}

func (r *repository) UpdateEntry(ctx context.Context, entry *CompensationEntry) error {
	return r.db.WithContext(ctx).Omit("Component").Save(entry).Error
}

func (r *repository) FindEntryByID(ctx context.Context, id string) (*CompensationEntry, error) {
	var entry CompensationEntry
	err := r.db.WithContext(ctx).Preload("Component").First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindActiveEntries(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]CompensationEntry, error) {
	var entries []CompensationEntry
	err := r.db.WithContext(ctx).
		Preload("Component").
		Joins("JOIN salary_components sc ON sc.id = compensation_entries.component_id AND sc.active = ?", true).
		Where("compensation_entries.employee_id = ?", employeeID).
		Where("compensation_entries.effective_from <= ?", asOf).
		Where("(compensation_entries.effective_to IS NULL OR compensation_entries.effective_to > ?)", asOf).
		Order("sc.code ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindEntriesByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CompensationEntry, error) {
	var entries []CompensationEntry
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("employee_id = ?", employeeID).
		Order("effective_from DESC").
		Find(&entries).Error
	return entries, err
}
