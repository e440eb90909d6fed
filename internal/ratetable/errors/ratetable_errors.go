package ratetableerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrConfigurationMissing = apperror.New(
		apperror.CodeConfigurationMissing,
		"no rate table is published for the requested year",
		http.StatusUnprocessableEntity,
	)
	ErrRateTableAlreadyPublished = apperror.New(
		apperror.CodeConflict,
		"a rate table is already published for this year",
		http.StatusConflict,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid rate table year",
		http.StatusBadRequest,
	)
	ErrInvalidBrackets = apperror.New(
		apperror.CodeInvalidInput,
		"tax brackets must be contiguous, ascending, start at zero and end with one open bracket",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"rates must be between 0 and 1",
		http.StatusBadRequest,
	)
	ErrInvalidContributionBase = apperror.New(
		apperror.CodeInvalidInput,
		"contribution min base must not exceed max base",
		http.StatusBadRequest,
	)
	ErrInvalidImportFile = apperror.New(
		apperror.CodeInvalidInput,
		"invalid rate table import file",
		http.StatusBadRequest,
	)
)
