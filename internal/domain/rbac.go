package domain

// EnforceRequest is shared by the rbac service and the HTTP middleware so
// neither package has to import the other.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

const (
	ResourcePayroll    = "payroll"
	ResourceEmployee   = "employee"
	ResourceAttendance = "attendance"
	ResourceLeave      = "leave"
	ResourceCompany    = "company"
	ResourceUser       = "user"

	ActionRead     = "read"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionGenerate = "generate"
	ActionApprove  = "approve"
	ActionPay      = "pay"
	ActionExport   = "export"
)

const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleOwner      = "OWNER"
	RoleAdmin      = "ADMIN"
	RoleHR         = "HR"
	RoleFinance    = "FINANCE"
	RoleManager    = "MANAGER"
	RoleEmployee   = "EMPLOYEE"
)

// IsPrivilegedRole reports whether a role may see records of other employees.
func IsPrivilegedRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleOwner, RoleAdmin, RoleHR, RoleFinance:
		return true
	default:
		return false
	}
}

// CanManageTeam extends IsPrivilegedRole with line managers, who act on
// attendance and leave of other employees but not on payroll.
func CanManageTeam(role string) bool {
	return IsPrivilegedRole(role) || role == RoleManager
}

// IsKnownRole reports whether role is one of the built-in role names.
func IsKnownRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleOwner, RoleAdmin, RoleHR, RoleFinance, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}
