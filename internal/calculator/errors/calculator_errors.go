package calculatorerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amounts must not be negative",
		http.StatusBadRequest,
	)
	ErrTaxableExceedsGross = apperror.New(
		apperror.CodeInvalidInput,
		"taxable earnings cannot exceed gross earnings",
		http.StatusBadRequest,
	)
	ErrInvalidExchangeRate = apperror.New(
		apperror.CodeInvalidInput,
		"exchange rate must be positive",
		http.StatusBadRequest,
	)
)
