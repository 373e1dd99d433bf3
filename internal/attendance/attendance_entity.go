package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"

	SourceSelf  = "SELF"
	SourceAdmin = "ADMIN"
)

// Attendance is one row per employee per working day. Payroll counts the
// PRESENT and LATE rows of a month as worked days.
type Attendance struct {
	ID             uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID    `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	EmployeeID     uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date,priority:2"`
	AttendanceDate time.Time    `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date,priority:3"`
	ClockIn        *time.Time   `gorm:"column:clock_in;type:timestamptz"`
	ClockOut       *time.Time   `gorm:"column:clock_out;type:timestamptz"`
	Latitude       *float64     `gorm:"column:latitude"`
	Longitude      *float64     `gorm:"column:longitude"`
	Status         string       `gorm:"column:status;type:varchar(20);not null;default:PRESENT;index"`
	Source         string       `gorm:"column:source;type:varchar(20);not null;default:SELF"`
	Notes          *string      `gorm:"column:notes;type:text"`
	RecordedBy     *uuid.UUID   `gorm:"column:recorded_by;type:uuid"`
	CreatedAt      time.Time    `gorm:"column:created_at"`
	UpdatedAt      time.Time    `gorm:"column:updated_at"`
	Employee       *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID;-:migration"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"column:company_id"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	FullName       string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// Query narrows FindAll. Nil fields are not filtered on.
type Query struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	Status     *string
}
