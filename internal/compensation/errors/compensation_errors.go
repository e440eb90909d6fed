package compensationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidComponentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary component id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_to must be after effective_from",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"compensation amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrPercentageRequired = apperror.New(
		apperror.CodeInvalidInput,
		"percentage components require a percentage between 0 and 1",
		http.StatusBadRequest,
	)
	ErrInvalidComponent = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary component definition",
		http.StatusBadRequest,
	)
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary component not found",
		http.StatusNotFound,
	)
	ErrComponentInactive = apperror.New(
		apperror.CodeInvalidState,
		"salary component is inactive",
		http.StatusBadRequest,
	)
	ErrComponentCodeExists = apperror.New(
		apperror.CodeConflict,
		"salary component code already exists",
		http.StatusConflict,
	)
	ErrStatutoryNotAssignable = apperror.New(
		apperror.CodeInvalidInput,
		"statutory components are computed and cannot be assigned to employees",
		http.StatusBadRequest,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensation entry not found",
		http.StatusNotFound,
	)
	ErrEntryAlreadyEnded = apperror.New(
		apperror.CodeInvalidState,
		"compensation entry can only be shortened",
		http.StatusBadRequest,
	)
	ErrOverlappingEntry = apperror.New(
		apperror.CodeOverlappingEntry,
		"compensation entry overlaps an existing entry for this component",
		http.StatusConflict,
	)
	ErrStatutoryComponentMissing = apperror.New(
		apperror.CodeConfigurationMissing,
		"statutory salary component is not configured",
		http.StatusUnprocessableEntity,
	)
)
