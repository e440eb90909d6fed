package loan

import (
	"errors"

	loanerrors "go-payroll/internal/loan/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_loan_repayment_payslip":
			return loanerrors.ErrRepaymentAlreadyRecorded
		}
	}

	return err
}
