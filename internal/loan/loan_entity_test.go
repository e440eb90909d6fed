package loan_test

import (
	"testing"
	"time"

	"go-payroll/internal/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func date(v string) time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLoanAdvance_RepayUntilCompleted(t *testing.T) {
	l := loan.LoanAdvance{
		Type:              loan.TypeLoan,
		Amount:            d("1000"),
		InstallmentCount:  3,
		InstallmentAmount: d("333.34"),
		Status:            loan.StatusApproved,
		StartDate:         date("2026-01-01"),
	}

	for i := 0; i < 2; i++ {
		applied := l.Repay(l.NextInstallment())
		assert.True(t, applied.Equal(d("333.34")), applied.String())
		assert.Equal(t, loan.StatusRepaying, l.Status)
	}

	last := l.NextInstallment()
	assert.True(t, last.Equal(d("333.32")), last.String())
	l.Repay(last)

	assert.Equal(t, loan.StatusCompleted, l.Status)
	assert.True(t, l.Balance().IsZero())
	assert.True(t, l.AmountRepaid.Equal(d("1000")))
	assert.False(t, l.DueAt(date("2026-06-01")))
}

func TestLoanAdvance_RepayCapsAtBalance(t *testing.T) {
	l := loan.LoanAdvance{Amount: d("100"), AmountRepaid: d("90"), InstallmentAmount: d("50"), Status: loan.StatusRepaying}

	applied := l.Repay(d("50"))

	assert.True(t, applied.Equal(d("10")))
	assert.Equal(t, loan.StatusCompleted, l.Status)
	assert.True(t, l.Repay(d("50")).IsZero())
}

func TestLoanAdvance_DueAt(t *testing.T) {
	base := loan.LoanAdvance{
		Amount:            d("500"),
		InstallmentAmount: d("100"),
		StartDate:         date("2026-02-01"),
	}

	tests := []struct {
		name   string
		status loan.Status
		asOf   string
		want   bool
	}{
		{"pending is never due", loan.StatusPending, "2026-03-01", false},
		{"rejected is never due", loan.StatusRejected, "2026-03-01", false},
		{"approved before start", loan.StatusApproved, "2026-01-01", false},
		{"approved on start", loan.StatusApproved, "2026-02-01", true},
		{"repaying", loan.StatusRepaying, "2026-05-01", true},
		{"completed", loan.StatusCompleted, "2026-05-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base
			l.Status = tt.status
			assert.Equal(t, tt.want, l.DueAt(date(tt.asOf)))
		})
	}
}

func TestInstallment_ComponentCode(t *testing.T) {
	assert.Equal(t, loan.LoanComponentCode, loan.Installment{Type: loan.TypeLoan}.ComponentCode())
	assert.Equal(t, loan.AdvanceComponentCode, loan.Installment{Type: loan.TypeAdvance}.ComponentCode())
	assert.Equal(t, "Salary advance recovery", loan.Installment{Type: loan.TypeAdvance}.ComponentName())
}
