package paysliperrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
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
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrInvalidYearRange = apperror.New(
		apperror.CodeInvalidInput,
		"from_year must be before or equal to_year",
		http.StatusBadRequest,
	)
	ErrExchangeRateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"exchange_rate is required when the employee is paid in another currency than the rate table",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrPaymentReferenceRequired = apperror.New(
		apperror.CodeInvalidInput,
		"payment_reference is required",
		http.StatusBadRequest,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrDocumentNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"payslip document has not been generated yet",
		http.StatusNotFound,
	)
	ErrDuplicatePayslip = apperror.New(
		apperror.CodeDuplicatePayslip,
		"a payslip already exists for this employee and period",
		http.StatusConflict,
	)
	ErrPersistenceConflict = apperror.New(
		apperror.CodePersistenceConflict,
		"payslip was written concurrently",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payslip status transition",
		http.StatusBadRequest,
	)
	ErrRegenerateOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"only draft payslips can be recalculated",
		http.StatusBadRequest,
	)
	ErrDeleteOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"only draft payslips can be deleted",
		http.StatusBadRequest,
	)
	ErrAnnotateOnlyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payment reference can only be annotated on paid payslips",
		http.StatusBadRequest,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is inactive",
		http.StatusBadRequest,
	)
)
