package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// Payroll is one salary record per (company, employee, period). Money is in
// whole currency units.
type Payroll struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:1;index:idx_payroll_company_status"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:2"`
	Employee   *PayrollEmployee `gorm:"foreignKey:EmployeeID;references:ID;-:migration"`
	Period     string           `gorm:"type:varchar(7);not null;uniqueIndex:uq_payroll_employee_period,priority:3"`

	PeriodStart      time.Time `gorm:"type:date;not null"`
	PeriodEnd        time.Time `gorm:"type:date;not null"`
	TotalWorkingDays int       `gorm:"not null"`
	DaysPresent      int       `gorm:"not null;default:0"`
	UnpaidDays       int       `gorm:"not null;default:0"`

	BasicSalary     int64 `gorm:"type:bigint;not null"`
	OvertimeAmount  int64 `gorm:"type:bigint;not null;default:0"`
	BonusesAmount   int64 `gorm:"type:bigint;not null;default:0"`
	DeductionAmount int64 `gorm:"type:bigint;not null;default:0"`
	NetSalary       int64 `gorm:"type:bigint;not null"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_payroll_company_status"`
	PaidAt    *time.Time `gorm:"index"`
	Notes     *string    `gorm:"type:text"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`

	PayslipURL         *string
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollEmployee is the read-only slice of the employee directory that
// payroll generation needs. It is never migrated.
type PayrollEmployee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"type:uuid"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	FullName       string    `gorm:"column:full_name"`
	BasicSalary    int64     `gorm:"column:basic_salary"`
	Status         string    `gorm:"column:status"`
}

func (PayrollEmployee) TableName() string {
	return "employees"
}

// LeaveRange is an approved unpaid leave, inclusive on both ends.
type LeaveRange struct {
	StartDate time.Time
	EndDate   time.Time
}
