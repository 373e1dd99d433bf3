package payroll

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

func renderPayslipPDF(p *Payroll, path string) error {
	name, number := p.EmployeeID.String(), ""
	if p.Employee != nil {
		name, number = p.Employee.FullName, p.Employee.EmployeeNumber
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+p.Period, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	if number != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Employee No: %s", number))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", p.PeriodStart.Format("2006-01-02"), p.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Days present: %d of %d (unpaid leave %d)", p.DaysPresent, p.TotalWorkingDays, p.UnpaidDays))
	pdf.Ln(10)

	rows := []struct {
		label  string
		amount int64
	}{
		{"Basic salary", p.BasicSalary},
		{"Overtime", p.OvertimeAmount},
		{"Bonuses", p.BonusesAmount},
		{"Deductions", -p.DeductionAmount},
	}
	for _, row := range rows {
		pdf.CellFormat(80, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, fmt.Sprintf("%d", row.amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("%d", p.NetSalary), "1", 1, "R", false, 0, "")

	if p.Notes != nil && *p.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+*p.Notes, "", "L", false)
	}

	return pdf.OutputFileAndClose(path)
}
