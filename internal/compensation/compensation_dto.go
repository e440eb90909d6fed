package compensation

import "github.com/shopspring/decimal"

type CreateComponentRequest struct {
	Code            string `json:"code" binding:"required,max=40"`
	Name            string `json:"name" binding:"required,max=120"`
	Kind            string `json:"kind" binding:"required,oneof=earning allowance deduction"`
	CalculationType string `json:"calculation_type" binding:"omitempty,oneof=fixed percentage per_overtime_hour"`
	Taxable         *bool  `json:"taxable"`
	Statutory       bool   `json:"statutory"`
	StatutoryKind   string `json:"statutory_kind" binding:"omitempty,oneof=social_security income_tax levy"`
	ProRated        bool   `json:"pro_rated"`
}

type ComponentResponse struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	CalculationType string `json:"calculation_type"`
	Taxable         bool   `json:"taxable"`
	Statutory       bool   `json:"statutory"`
	StatutoryKind   string `json:"statutory_kind,omitempty"`
	ProRated        bool   `json:"pro_rated"`
	Active          bool   `json:"active"`
}

type CreateEntryRequest struct {
	EmployeeID    string          `json:"employee_id" binding:"required,uuid"`
	ComponentID   string          `json:"component_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	EffectiveFrom string          `json:"effective_from" binding:"required"`
	EffectiveTo   *string         `json:"effective_to"`
	Notes         *string         `json:"notes"`
}

type EndEntryRequest struct {
	EffectiveTo string `json:"effective_to" binding:"required"`
}

type ListEntriesRequest struct {
	AsOf string `form:"as_of"`
}

type EntryResponse struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employee_id"`
	ComponentID   string             `json:"component_id"`
	Component     *ComponentResponse `json:"component,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
	Percentage    decimal.Decimal    `json:"percentage"`
	EffectiveFrom string             `json:"effective_from"`
	EffectiveTo   *string            `json:"effective_to,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
}
