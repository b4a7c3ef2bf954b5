package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Day-of-week codes stored on is_weekend: 1=Sunday .. 7=Saturday.
// Weekdays are 2..6. The column name is historical; it carries the full
// day-of-week, not just a weekend flag.
const (
	DayCodeSunday   = 1
	DayCodeSaturday = 7
)

type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_company_date"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_employee_date,unique"`

	AttendanceDate time.Time `gorm:"type:date;not null;index:idx_attendance_employee_date,unique;index:idx_attendance_company_date"`

	CheckInTime  *time.Time
	CheckOutTime *time.Time

	ScheduledInTime  *time.Time
	ScheduledOutTime *time.Time

	// Seconds of pay-eligible overlap between the scheduled shift and the
	// actually worked interval. Written at check-out.
	PayableDuration int64 `gorm:"type:bigint;not null;default:0"`

	IsWeekend     int     `gorm:"type:int;not null"`
	OvertimeHours float64 `gorm:"type:numeric(6,2);not null;default:0"`

	Status string  `gorm:"type:varchar(20);not null;default:'PRESENT'"`
	Source string  `gorm:"type:varchar(20);not null;default:'MANUAL'"`
	Notes  *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayCode returns the stored 1=Sunday..7=Saturday code for a date.
func DayCode(t time.Time) int {
	return int(t.Weekday()) + 1
}

// PayableHours converts the stored payable seconds to hours.
func (a Attendance) PayableHours() float64 {
	return float64(a.PayableDuration) / 3600.0
}

// Completed reports whether the row represents a closed work session.
func (a Attendance) Completed() bool {
	return a.CheckInTime != nil && a.CheckOutTime != nil
}
