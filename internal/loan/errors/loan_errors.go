package loanerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidLoanID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid loan id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTerms = apperror.New(
		apperror.CodeInvalidInput,
		"invalid loan terms",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required",
		http.StatusBadRequest,
	)
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"loan status does not allow this action",
		http.StatusBadRequest,
	)
	ErrRepaymentAlreadyRecorded = apperror.New(
		apperror.CodeConflict,
		"repayment already recorded for this payslip",
		http.StatusConflict,
	)
)
