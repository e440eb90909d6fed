package loan

import "github.com/shopspring/decimal"

type CreateLoanRequest struct {
	EmployeeID        string          `json:"employee_id" binding:"required,uuid"`
	Type              string          `json:"type" binding:"required,oneof=loan advance"`
	Amount            decimal.Decimal `json:"amount"`
	Purpose           string          `json:"purpose" binding:"max=1000"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	InstallmentCount  int             `json:"installment_count" binding:"omitempty,min=1,max=120"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	StartDate         string          `json:"start_date" binding:"required"`
}

type RejectLoanRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type LoanResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Purpose           string          `json:"purpose,omitempty"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	InstallmentCount  int             `json:"installment_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	StartDate         string          `json:"start_date"`
	Status            string          `json:"status"`
	AmountRepaid      decimal.Decimal `json:"amount_repaid"`
	Balance           decimal.Decimal `json:"balance"`
	ApprovedBy        *string         `json:"approved_by,omitempty"`
	ApprovedAt        *string         `json:"approved_at,omitempty"`
	RejectedReason    *string         `json:"rejected_reason,omitempty"`
	CreatedAt         string          `json:"created_at"`
}
