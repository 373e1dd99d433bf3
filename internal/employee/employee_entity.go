package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive     = "ACTIVE"
	StatusInactive   = "INACTIVE"
	StatusTerminated = "TERMINATED"
)

type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_employee_number,priority:1;uniqueIndex:uq_employee_email,priority:1;index:idx_employee_company_status,priority:1"`
	EmployeeNumber string         `gorm:"type:varchar(30);not null;uniqueIndex:uq_employee_number,priority:2"`
	FullName       string         `gorm:"type:varchar(150);not null"`
	Email          string         `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email,priority:2"`
	BasicSalary    int64          `gorm:"type:bigint;not null;default:0"`
	Status         string         `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_employee_company_status,priority:2"`
	JoinedAt       time.Time      `gorm:"type:date;not null"`
	CreatedAt      time.Time      `gorm:"not null;default:now()"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
