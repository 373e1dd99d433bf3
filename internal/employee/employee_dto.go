package employee

type CreateEmployeeRequest struct {
	FullName    string `json:"full_name" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	BasicSalary int64  `json:"basic_salary" binding:"gte=0"`
	JoinedAt    string `json:"joined_at" binding:"required,datetime=2006-01-02"`
	Status      string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type UpdateEmployeeRequest struct {
	FullName    string `json:"full_name" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	BasicSalary int64  `json:"basic_salary" binding:"gte=0"`
	JoinedAt    string `json:"joined_at" binding:"required,datetime=2006-01-02"`
	Status      string `json:"status" binding:"required,oneof=ACTIVE INACTIVE TERMINATED"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	BasicSalary    int64  `json:"basic_salary"`
	Status         string `json:"status"`
	JoinedAt       string `json:"joined_at"`
}

type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}
