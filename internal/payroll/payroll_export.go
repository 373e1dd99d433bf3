package payroll

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExportFile struct {
	Filename string
	Content  []byte
}

var exportHeaders = []string{
	"Employee No", "Employee", "Period", "Working Days", "Days Present", "Unpaid Days",
	"Basic Salary", "Overtime", "Bonuses", "Deduction", "Net Salary", "Status", "Paid At",
}

func buildPayrollWorkbook(period Period, payrolls []Payroll) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll " + period.Month
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	var totalNet int64
	for i, p := range payrolls {
		resp := mapToResponse(p)
		paidAt := ""
		if resp.PaidAt != nil {
			paidAt = *resp.PaidAt
		}
		row := []any{
			resp.EmployeeNumber, resp.EmployeeName, resp.Period, resp.TotalWorkingDays,
			resp.DaysPresent, resp.UnpaidDays, resp.BasicSalary, resp.OvertimeAmount,
			resp.BonusesAmount, resp.DeductionAmount, resp.NetSalary, resp.Status, paidAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		totalNet += p.NetSalary
	}

	totalRow := len(payrolls) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("J%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("K%d", totalRow), totalNet); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "B", 22)
	_ = f.SetColWidth(sheet, "C", lastCol, 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
