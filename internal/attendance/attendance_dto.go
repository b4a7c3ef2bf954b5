package attendance

type ClockInRequest struct {
	Source string  `json:"source"`
	Notes  *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type AttendanceResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	EmployeeID       string  `json:"employee_id"`
	AttendanceDate   string  `json:"attendance_date"`
	CheckInTime      *string `json:"check_in_time,omitempty"`
	CheckOutTime     *string `json:"check_out_time,omitempty"`
	ScheduledInTime  *string `json:"scheduled_in_time,omitempty"`
	ScheduledOutTime *string `json:"scheduled_out_time,omitempty"`
	PayableSeconds   int64   `json:"payable_seconds"`
	DayOfWeekCode    int     `json:"day_of_week_code"`
	OvertimeHours    float64 `json:"overtime_hours"`
	Status           string  `json:"status"`
	Source           string  `json:"source"`
	Notes            *string `json:"notes,omitempty"`
}
