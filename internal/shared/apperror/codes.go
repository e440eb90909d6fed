package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Payroll engine taxonomy
	CodeConfigurationMissing = "CONFIGURATION_MISSING"
	CodeOverlappingEntry     = "OVERLAPPING_ENTRY"
	CodeDuplicatePayslip     = "DUPLICATE_PAYSLIP"
	CodePersistenceConflict  = "PERSISTENCE_CONFLICT"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
