package loan

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, loan *LoanAdvance) error
	Update(ctx context.Context, loan *LoanAdvance) error
	FindByID(ctx context.Context, id string) (*LoanAdvance, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LoanAdvance, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LoanAdvance, error)
	FindDue(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]LoanAdvance, error)
	CreateRepayment(ctx context.Context, repayment *LoanRepayment) error
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

func (r *repository) Create(ctx context.Context, loan *LoanAdvance) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *repository) Update(ctx context.Context, loan *LoanAdvance) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LoanAdvance, error) {
	var loan LoanAdvance
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LoanAdvance, error) {
	var loan LoanAdvance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LoanAdvance, error) {
	var loans []LoanAdvance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// FindDue returns approved or repaying loans that started on or before
// asOf and still carry a balance, oldest first.
func (r *repository) FindDue(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]LoanAdvance, error) {
	var loans []LoanAdvance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status IN ?", employeeID, []Status{StatusApproved, StatusRepaying}).
		Where("start_date <= ? AND amount_repaid < amount", asOf).
		Order("start_date ASC, created_at ASC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) CreateRepayment(ctx context.Context, repayment *LoanRepayment) error {
	return r.db.WithContext(ctx).Create(repayment).Error
}
