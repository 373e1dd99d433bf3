package payroll

type GeneratePayrollRequest struct {
	Month string `json:"month" binding:"required"`
}

// GenerateResult carries the records created by one generation run plus one
// message per employee that was skipped or failed.
type GenerateResult struct {
	Records []PayrollResponse
	Errors  []string
}

type AdjustPayrollRequest struct {
	OvertimeAmount  *int64  `json:"overtime_amount"`
	BonusesAmount   *int64  `json:"bonuses_amount"`
	DeductionAmount *int64  `json:"deduction_amount"`
	Notes           *string `json:"notes"`
}

type GetPayrollsFilterRequest struct {
	Period string `form:"period"`
	Status string `form:"status"`
}

type PayrollQueryFilter struct {
	Period *string
	Status *string
}

type PayrollResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	EmployeeNumber     string  `json:"employee_number,omitempty"`
	Period             string  `json:"period"`
	PeriodStart        string  `json:"period_start"`
	PeriodEnd          string  `json:"period_end"`
	TotalWorkingDays   int     `json:"total_working_days"`
	DaysPresent        int     `json:"days_present"`
	UnpaidDays         int     `json:"unpaid_days"`
	BasicSalary        int64   `json:"basic_salary"`
	OvertimeAmount     int64   `json:"overtime_amount"`
	BonusesAmount      int64   `json:"bonuses_amount"`
	DeductionAmount    int64   `json:"deduction_amount"`
	NetSalary          int64   `json:"net_salary"`
	Status             string  `json:"status"`
	PaidAt             *string `json:"paid_at,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	CreatedBy          *string `json:"created_by,omitempty"`
	PayslipURL         *string `json:"payslip_url,omitempty"`
	PayslipGeneratedAt *string `json:"payslip_generated_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}
