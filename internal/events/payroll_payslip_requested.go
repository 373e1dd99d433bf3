package events

import "time"

const (
	PayrollPayslipRequestedTopic = "hr.payroll.payslip.requested.v1"
	PayrollPayslipRequestedType  = "payroll_payslip_requested"
)

// PayrollPayslipRequestedEvent is queued when a payroll record is paid; the
// consumer renders the payslip PDF for it.
type PayrollPayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	PayrollID   string    `json:"payroll_id"`
	CompanyID   string    `json:"company_id"`
	Period      string    `json:"period"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
