package payrollbatch

import (
	"time"

	"github.com/shopspring/decimal"
)

type RunBatchRequest struct {
	PeriodStart     string   `json:"period_start" binding:"required"`
	PeriodEnd       string   `json:"period_end" binding:"required"`
	PaymentDate     *string  `json:"payment_date"`
	EmployeeIDs     []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	DepartmentID    *string  `json:"department_id" binding:"omitempty,uuid"`
	IncludeInactive bool     `json:"include_inactive"`
	Submit          bool     `json:"submit"`
	Concurrency     int      `json:"concurrency" binding:"omitempty,min=1,max=64"`
}

type ListBatchesRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type OutcomeResponse struct {
	EmployeeID    string        `json:"employee_id"`
	Status        OutcomeStatus `json:"status"`
	PayslipID     *string       `json:"payslip_id,omitempty"`
	PayslipNumber string        `json:"payslip_number,omitempty"`
	ErrorCode     string        `json:"error_code,omitempty"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}

type BatchResponse struct {
	ID                 string            `json:"id"`
	PeriodStart        string            `json:"period_start"`
	PeriodEnd          string            `json:"period_end"`
	Status             Status            `json:"status"`
	TotalEmployees     int               `json:"total_employees"`
	ProcessedEmployees int               `json:"processed_employees"`
	GeneratedEmployees int               `json:"generated_employees"`
	SkippedEmployees   int               `json:"skipped_employees"`
	FailedEmployees    int               `json:"failed_employees"`
	CancelledEmployees int               `json:"cancelled_employees"`
	TotalGross         decimal.Decimal   `json:"total_gross"`
	TotalDeductions    decimal.Decimal   `json:"total_deductions"`
	TotalNet           decimal.Decimal   `json:"total_net"`
	StartedAt          string            `json:"started_at"`
	FinishedAt         *string           `json:"finished_at,omitempty"`
	RequestedBy        *string           `json:"requested_by,omitempty"`
	Outcomes           []OutcomeResponse `json:"outcomes,omitempty"`
}

func mapToResponse(b PayrollBatch) BatchResponse {
	resp := BatchResponse{
		ID:                 b.ID.String(),
		PeriodStart:        b.PeriodStart.Format(dateLayout),
		PeriodEnd:          b.PeriodEnd.Format(dateLayout),
		Status:             b.Status,
		TotalEmployees:     b.TotalEmployees,
		ProcessedEmployees: b.ProcessedEmployees,
		GeneratedEmployees: b.GeneratedEmployees,
		SkippedEmployees:   b.SkippedEmployees,
		FailedEmployees:    b.FailedEmployees,
		CancelledEmployees: b.CancelledEmployees,
		TotalGross:         b.TotalGross,
		TotalDeductions:    b.TotalDeductions,
		TotalNet:           b.TotalNet,
		StartedAt:          b.StartedAt.UTC().Format(time.RFC3339),
	}
	if b.FinishedAt != nil {
		v := b.FinishedAt.UTC().Format(time.RFC3339)
		resp.FinishedAt = &v
	}
	if b.RequestedBy != nil {
		v := b.RequestedBy.String()
		resp.RequestedBy = &v
	}
	if len(b.Outcomes) > 0 {
		resp.Outcomes = make([]OutcomeResponse, len(b.Outcomes))
		for i, o := range b.Outcomes {
			out := OutcomeResponse{
				EmployeeID:    o.EmployeeID.String(),
				Status:        o.Status,
				PayslipNumber: o.PayslipNumber,
				ErrorCode:     o.ErrorCode,
				ErrorMessage:  o.ErrorMessage,
			}
			if o.PayslipID != nil {
				v := o.PayslipID.String()
				out.PayslipID = &v
			}
			resp.Outcomes[i] = out
		}
	}
	return resp
}
