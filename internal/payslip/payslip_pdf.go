package payslip

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

func money(v decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", v.StringFixed(2), currency)
}

// renderPayslipPDF lays out header, line items and totals on one A4 page.
func renderPayslipPDF(p Payslip, employee Employee) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+p.PayslipNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip "+p.PayslipNumber)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		"Employee: " + employee.FullName,
		"Email: " + employee.Email,
		fmt.Sprintf("Period: %s to %s", p.PeriodStart.Format(dateLayout), p.PeriodEnd.Format(dateLayout)),
		"Status: " + strings.ToUpper(string(p.Status)),
		fmt.Sprintf("Days worked: %d  Unpaid absence: %d  Overtime hours: %s",
			p.DaysWorked, p.UnpaidAbsenceDays, p.OvertimeHours.StringFixed(2)),
	}
	if p.PaymentDate != nil {
		header = append(header, "Payment date: "+p.PaymentDate.Format(dateLayout))
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 8, "Code", "B", 0, "L", false, 0, "")
	pdf.CellFormat(100, 8, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, e := range p.Entries {
		pdf.CellFormat(30, 7, e.ComponentCode, "", 0, "L", false, 0, "")
		pdf.CellFormat(100, 7, e.ComponentName, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, money(e.Amount, p.Currency), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Gross earnings", p.GrossEarnings},
		{"Taxable income", p.TaxableIncome},
		{"Total deductions", p.TotalDeductions},
		{"Employer contribution", p.ContributionEmployer},
	}
	for _, t := range totals {
		pdf.CellFormat(130, 7, t.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, money(t.value, p.Currency), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 9, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, money(p.NetPay, p.Currency), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip %s: %w", p.PayslipNumber, err)
	}
	return buf.Bytes(), nil
}
