package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	CycleOverrideDefault = "default"
	CycleOverrideCustom  = "custom"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company_status"`

	EmployeeCode string `gorm:"type:varchar(30);not null"`
	FullName     string `gorm:"type:varchar(120);not null"`

	DepartmentID    *uuid.UUID `gorm:"type:uuid;index"`
	DepartmentName  *string    `gorm:"type:varchar(120)"`
	DesignationID   *uuid.UUID `gorm:"type:uuid;index"`
	DesignationName *string    `gorm:"type:varchar(120)"`
	EmploymentType  string     `gorm:"type:varchar(30);not null;default:'full_time'"`

	BaseSalary float64 `gorm:"type:numeric(14,2);not null;default:0"`

	// Scheduled weekday shift, clock times in "15:04" form.
	InTime  *string `gorm:"type:varchar(5)"`
	OutTime *string `gorm:"type:varchar(5)"`

	WeekendWorkingConfig datatypes.JSONType[WeekendWorkingConfig] `gorm:"type:jsonb"`

	PayrollCycleOverride      string     `gorm:"type:varchar(10);not null;default:'default'"`
	PayrollCycleDay           *int       `gorm:"type:int"`
	PayrollCycleEffectiveFrom *time.Time `gorm:"type:date"`

	AttendanceAffectsSalary bool   `gorm:"not null;default:true"`
	Status                  string `gorm:"type:varchar(20);not null;default:'active';index:idx_employees_company_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
