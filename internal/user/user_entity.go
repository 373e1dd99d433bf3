package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User maps the same table the auth module logs in against.
type User struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID      `gorm:"column:company_id;type:uuid;not null"`
	EmployeeID uuid.UUID      `gorm:"column:employee_id;type:uuid;not null"`
	Name       string         `gorm:"column:name"`
	Email      string         `gorm:"column:email"`
	Password   string         `gorm:"column:password"`
	Role       string         `gorm:"column:role"`
	IsActive   bool           `gorm:"column:is_active"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at"`

	Employee *UserEmployee `gorm:"foreignKey:EmployeeID;references:ID;-:migration"`
}

func (User) TableName() string {
	return "users"
}

// UserEmployee is the slice of an employee row a user listing needs.
type UserEmployee struct {
	ID             uuid.UUID `gorm:"primaryKey"`
	CompanyID      uuid.UUID `gorm:"column:company_id"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	FullName       string    `gorm:"column:full_name"`
	Status         string    `gorm:"column:status"`
}

func (UserEmployee) TableName() string {
	return "employees"
}
