package payslip

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID *uuid.UUID
	BatchID    *uuid.UUID
	FromYear   int
	ToYear     int
	Status     Status
	Limit      int
	Offset     int
}

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByPeriod(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*Payslip, error)
	Create(ctx context.Context, payslip *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Payslip, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Payslip, int64, error)
	Update(ctx context.Context, payslip *Payslip) error
	ReplaceEntries(ctx context.Context, payslipID uuid.UUID, entries []PayslipEntry) error
	FindEntries(ctx context.Context, payslipID uuid.UUID) ([]PayslipEntry, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, url string, generatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
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

// FindByPeriod returns the live payslip for the period, ignoring cancelled
// and rejected ones, or gorm.ErrRecordNotFound.
func (r *repository) FindByPeriod(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND period_start = ? AND period_end = ? AND status NOT IN ?",
			employeeID, start, end, []Status{StatusCancelled, StatusRejected}).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the header and its entries in one statement batch.
func (r *repository) Create(ctx context.Context, payslip *Payslip) error {
	return r.db.WithContext(ctx).Create(payslip).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Payslip, int64, error) {
	var (
		payslips []Payslip
		total    int64
	)

	query := r.db.WithContext(ctx).Model(&Payslip{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}
	if filter.FromYear > 0 {
		query = query.Where("period_start >= ?", time.Date(filter.FromYear, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	if filter.ToYear > 0 {
		query = query.Where("period_start < ?", time.Date(filter.ToYear+1, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := query.Order("period_start DESC, created_at DESC").Find(&payslips).Error
	return payslips, total, err
}

// Update saves header columns only; entries go through ReplaceEntries.
func (r *repository) Update(ctx context.Context, payslip *Payslip) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(payslip).Error
}

func (r *repository) ReplaceEntries(ctx context.Context, payslipID uuid.UUID, entries []PayslipEntry) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("payslip_id = ?", payslipID).Delete(&PayslipEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].PayslipID = payslipID
	}
	return db.Create(&entries).Error
}

func (r *repository) FindEntries(ctx context.Context, payslipID uuid.UUID) ([]PayslipEntry, error) {
	var entries []PayslipEntry
	err := r.db.WithContext(ctx).
		Where("payslip_id = ?", payslipID).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) UpdateDocument(ctx context.Context, id uuid.UUID, url string, generatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Payslip{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"document_url":          url,
			"document_generated_at": generatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Payslip{}, "id = ?", id).Error
}
