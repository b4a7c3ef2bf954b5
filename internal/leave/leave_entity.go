package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-payroll/internal/employee"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	DurationFullDay    = "full_day"
	DurationHalfDay    = "half_day"
	DurationShortLeave = "short_leave"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'annual'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`

	// full_day, half_day or short_leave. Short leave carries clock times.
	LeaveDuration string  `gorm:"type:varchar(20);not null;default:'full_day'"`
	StartTime     *string `gorm:"type:varchar(5)"`
	EndTime       *string `gorm:"type:varchar(5)"`

	IsPaid bool   `gorm:"not null;default:true"`
	Status string `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_company_status"`
	Reason string `gorm:"type:text"`

	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

// ClockSpanHours returns the short-leave clock span, 0 when times are absent
// or unparseable.
func (l Leave) ClockSpanHours() float64 {
	if l.StartTime == nil || l.EndTime == nil {
		return 0
	}
	return employee.ScheduleSpanHours(*l.StartTime, *l.EndTime)
}
