package payrollbatcherrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidBatchID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll batch id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must not be after period_end",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id in selection",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrBatchNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll batch not found",
		http.StatusNotFound,
	)
	ErrBatchAlreadyRunning = apperror.New(
		apperror.CodeConflict,
		"a payroll batch for this period is already running",
		http.StatusConflict,
	)
)
