package attendance

type ClockInRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	Notes     *string  `json:"notes" binding:"omitempty,max=500"`
}

type ClockOutRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	Notes     *string  `json:"notes" binding:"omitempty,max=500"`
}

// RecordAttendanceRequest lets HR create or overwrite the row of one day.
// ClockIn and ClockOut are RFC3339 timestamps.
type RecordAttendanceRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required,datetime=2006-01-02"`
	Status     string  `json:"status" binding:"required,oneof=PRESENT LATE ABSENT HALF_DAY"`
	ClockIn    *string `json:"clock_in"`
	ClockOut   *string `json:"clock_out"`
	Notes      *string `json:"notes" binding:"omitempty,max=500"`
}

type GetAttendancesFilterRequest struct {
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=PRESENT LATE ABSENT HALF_DAY"`
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name,omitempty"`
	EmployeeNumber string   `json:"employee_number,omitempty"`
	AttendanceDate string   `json:"attendance_date"`
	ClockIn        *string  `json:"clock_in,omitempty"`
	ClockOut       *string  `json:"clock_out,omitempty"`
	WorkedMinutes  *int     `json:"worked_minutes,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Status         string   `json:"status"`
	Source         string   `json:"source"`
	Notes          *string  `json:"notes,omitempty"`
}
