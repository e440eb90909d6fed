package payslip

import (
	"time"

	paysliperrors "go-payroll/internal/payslip/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// GenerateRequest is the typed input of Generate, shared by the HTTP
// handler and the batch runner.
type GenerateRequest struct {
	EmployeeID   uuid.UUID
	PeriodStart  time.Time
	PeriodEnd    time.Time
	PaymentDate  *time.Time
	Submit       bool
	ExchangeRate decimal.Decimal
	ActorID      *uuid.UUID
	BatchID      *uuid.UUID
	RequestID    string
}

type CreatePayslipRequest struct {
	EmployeeID   string           `json:"employee_id" binding:"required,uuid"`
	PeriodStart  string           `json:"period_start" binding:"required"`
	PeriodEnd    string           `json:"period_end" binding:"required"`
	PaymentDate  *string          `json:"payment_date"`
	Submit       bool             `json:"submit"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
}

func (r CreatePayslipRequest) ToGenerateRequest(actorID string) (GenerateRequest, error) {
	employeeID, err := uuid.Parse(r.EmployeeID)
	if err != nil {
		return GenerateRequest{}, paysliperrors.ErrInvalidEmployeeID
	}
	start, end, err := ParsePeriod(r.PeriodStart, r.PeriodEnd)
	if err != nil {
		return GenerateRequest{}, err
	}

	req := GenerateRequest{
		EmployeeID:  employeeID,
		PeriodStart: start,
		PeriodEnd:   end,
		Submit:      r.Submit,
		ActorID:     parseOptionalUUID(actorID),
	}
	if r.PaymentDate != nil && *r.PaymentDate != "" {
		paymentDate, err := time.Parse(dateLayout, *r.PaymentDate)
		if err != nil {
			return GenerateRequest{}, paysliperrors.ErrInvalidDateFormat
		}
		req.PaymentDate = &paymentDate
	}
	if r.ExchangeRate != nil {
		req.ExchangeRate = *r.ExchangeRate
	}
	return req, nil
}

// ParsePeriod parses an inclusive [start, end] pay period.
func ParsePeriod(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, paysliperrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, paysliperrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, paysliperrors.ErrInvalidPeriod
	}
	return start, end, nil
}

type ListPayslipsRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	FromYear   int    `form:"from_year" binding:"omitempty,min=1900,max=9999"`
	ToYear     int    `form:"to_year" binding:"omitempty,min=1900,max=9999"`
	Status     string `form:"status" binding:"omitempty,oneof=draft pending approved rejected cancelled paid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type PaymentReferenceRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=100"`
}

type EntryResponse struct {
	ComponentID   *string          `json:"component_id,omitempty"`
	LoanID        *string          `json:"loan_id,omitempty"`
	ComponentCode string           `json:"component_code"`
	ComponentName string           `json:"component_name"`
	Kind          string           `json:"kind"`
	Statutory     bool             `json:"statutory"`
	Amount        decimal.Decimal  `json:"amount"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
}

type PayslipResponse struct {
	ID                   string          `json:"id"`
	PayslipNumber        string          `json:"payslip_number"`
	EmployeeID           string          `json:"employee_id"`
	BatchID              *string         `json:"batch_id,omitempty"`
	PeriodStart          string          `json:"period_start"`
	PeriodEnd            string          `json:"period_end"`
	PaymentDate          *string         `json:"payment_date,omitempty"`
	Currency             string          `json:"currency"`
	ExchangeRate         decimal.Decimal `json:"exchange_rate"`
	Status               Status          `json:"status"`
	BasicSalary          decimal.Decimal `json:"basic_salary"`
	GrossEarnings        decimal.Decimal `json:"gross_earnings"`
	TaxableEarnings      decimal.Decimal `json:"taxable_earnings"`
	NonTaxableEarnings   decimal.Decimal `json:"non_taxable_earnings"`
	TotalAllowances      decimal.Decimal `json:"total_allowances"`
	OtherDeductions      decimal.Decimal `json:"other_deductions"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	TaxableIncome        decimal.Decimal `json:"taxable_income"`
	IncomeTax            decimal.Decimal `json:"income_tax"`
	ContributionEmployee decimal.Decimal `json:"contribution_employee"`
	ContributionEmployer decimal.Decimal `json:"contribution_employer"`
	Levy                 decimal.Decimal `json:"levy"`
	NetPay               decimal.Decimal `json:"net_pay"`
	DaysWorked           int             `json:"days_worked"`
	UnpaidAbsenceDays    int             `json:"unpaid_absence_days"`
	OvertimeHours        decimal.Decimal `json:"overtime_hours"`
	SubmittedAt          *string         `json:"submitted_at,omitempty"`
	ApprovedBy           *string         `json:"approved_by,omitempty"`
	ApprovedAt           *string         `json:"approved_at,omitempty"`
	RejectedReason       *string         `json:"rejected_reason,omitempty"`
	CancelledReason      *string         `json:"cancelled_reason,omitempty"`
	PaidAt               *string         `json:"paid_at,omitempty"`
	PaymentReference     *string         `json:"payment_reference,omitempty"`
	DocumentURL          *string         `json:"document_url,omitempty"`
	CreatedAt            string          `json:"created_at"`
	Entries              []EntryResponse `json:"entries,omitempty"`
}

func parseOptionalUUID(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:                   p.ID.String(),
		PayslipNumber:        p.PayslipNumber,
		EmployeeID:           p.EmployeeID.String(),
		PeriodStart:          p.PeriodStart.Format(dateLayout),
		PeriodEnd:            p.PeriodEnd.Format(dateLayout),
		Currency:             p.Currency,
		ExchangeRate:         p.ExchangeRate,
		Status:               p.Status,
		BasicSalary:          p.BasicSalary,
		GrossEarnings:        p.GrossEarnings,
		TaxableEarnings:      p.TaxableEarnings,
		NonTaxableEarnings:   p.NonTaxableEarnings,
		TotalAllowances:      p.TotalAllowances,
		OtherDeductions:      p.OtherDeductions,
		TotalDeductions:      p.TotalDeductions,
		TaxableIncome:        p.TaxableIncome,
		IncomeTax:            p.IncomeTax,
		ContributionEmployee: p.ContributionEmployee,
		ContributionEmployer: p.ContributionEmployer,
		Levy:                 p.Levy,
		NetPay:               p.NetPay,
		DaysWorked:           p.DaysWorked,
		UnpaidAbsenceDays:    p.UnpaidAbsenceDays,
		OvertimeHours:        p.OvertimeHours,
		SubmittedAt:          formatTime(p.SubmittedAt),
		ApprovedAt:           formatTime(p.ApprovedAt),
		RejectedReason:       p.RejectedReason,
		CancelledReason:      p.CancelledReason,
		PaidAt:               formatTime(p.PaidAt),
		PaymentReference:     p.PaymentReference,
		DocumentURL:          p.DocumentURL,
		CreatedAt:            p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.BatchID != nil {
		v := p.BatchID.String()
		resp.BatchID = &v
	}
	if p.PaymentDate != nil {
		v := p.PaymentDate.Format(dateLayout)
		resp.PaymentDate = &v
	}
	if p.ApprovedBy != nil {
		v := p.ApprovedBy.String()
		resp.ApprovedBy = &v
	}

	if len(p.Entries) > 0 {
		resp.Entries = make([]EntryResponse, len(p.Entries))
		for i, e := range p.Entries {
			resp.Entries[i] = mapEntryResponse(e)
		}
	}
	return resp
}

func mapEntryResponse(e PayslipEntry) EntryResponse {
	resp := EntryResponse{
		ComponentCode: e.ComponentCode,
		ComponentName: e.ComponentName,
		Kind:          e.Kind,
		Statutory:     e.Statutory,
		Amount:        e.Amount,
	}
	if e.ComponentID != nil {
		v := e.ComponentID.String()
		resp.ComponentID = &v
	}
	if e.LoanID != nil {
		v := e.LoanID.String()
		resp.LoanID = &v
	}
	if e.Quantity.Valid {
		v := e.Quantity.Decimal
		resp.Quantity = &v
	}
	if e.Rate.Valid {
		v := e.Rate.Decimal
		resp.Rate = &v
	}
	return resp
}

func mapToListResponse(payslips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, len(payslips))
	for i, p := range payslips {
		resp[i] = mapToResponse(p)
	}
	return resp
}
