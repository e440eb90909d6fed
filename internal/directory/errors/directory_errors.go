package directoryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrSalaryNotConfigured = apperror.New(
		apperror.CodeConfigurationMissing,
		"employee has no effective basic salary",
		http.StatusUnprocessableEntity,
	)
)
