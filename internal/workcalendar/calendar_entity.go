package workcalendar

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_holidays_company_date"`

	Name        string    `gorm:"type:varchar(120);not null"`
	HolidayDate time.Time `gorm:"type:date;not null;index:idx_holidays_company_date"`

	IsOptional   bool `gorm:"not null;default:false"`
	AppliesToAll bool `gorm:"not null;default:true"`

	// Department scoping, only consulted when applies_to_all is false.
	DepartmentIDs datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo reports whether the holiday covers the given department.
func (h Holiday) AppliesTo(departmentID *string) bool {
	if h.AppliesToAll {
		return true
	}
	if departmentID == nil {
		return false
	}
	for _, id := range h.DepartmentIDs {
		if id == *departmentID {
			return true
		}
	}
	return false
}
