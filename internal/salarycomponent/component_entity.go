package salarycomponent

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-payroll/internal/shared/apperror"
)

const (
	TypeEarning   = "earning"
	TypeDeduction = "deduction"

	CategoryStatutory = "statutory"
	CategoryCustom    = "custom"

	CalculationFixed      = "fixed"
	CalculationPercentage = "percentage"
	CalculationFormula    = "formula"

	AppliesToAll         = "all"
	AppliesToDepartment  = "department"
	AppliesToDesignation = "designation"
	AppliesToIndividual  = "individual"

	AmountTypeFixed      = "fixed"
	AmountTypePercentage = "percentage"
)

// SalaryComponent is a company-configured earning or deduction rule.
type SalaryComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	Code string `gorm:"type:varchar(40);not null"`
	Name string `gorm:"type:varchar(120);not null"`

	ComponentType string `gorm:"type:varchar(20);not null"`
	Category      string `gorm:"type:varchar(20);not null;default:'custom'"`

	CalculationType string  `gorm:"type:varchar(20);not null;default:'fixed'"`
	Value           float64 `gorm:"type:numeric(14,2);not null;default:0"`
	Formula         *string `gorm:"type:text"`

	AppliesTo      string                      `gorm:"type:varchar(20);not null;default:'all'"`
	DepartmentIDs  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	DesignationIDs datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	EmployeeIDs    datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TargetEmployee carries the identity fields applies_to scoping needs.
type TargetEmployee struct {
	ID            uuid.UUID
	DepartmentID  *uuid.UUID
	DesignationID *uuid.UUID
}

// AppliesToEmployee resolves the component's applies_to scope against one
// employee. An unknown scope is a configuration error and fails the
// operation rather than silently including or excluding the component.
func (c SalaryComponent) AppliesToEmployee(emp TargetEmployee) (bool, error) {
	switch c.AppliesTo {
	case AppliesToAll, "":
		return true, nil
	case AppliesToDepartment:
		return emp.DepartmentID != nil && containsID(c.DepartmentIDs, *emp.DepartmentID), nil
	case AppliesToDesignation:
		return emp.DesignationID != nil && containsID(c.DesignationIDs, *emp.DesignationID), nil
	case AppliesToIndividual:
		return containsID(c.EmployeeIDs, emp.ID), nil
	default:
		return false, apperror.New(apperror.CodeInvalidState, "unknown component scope: "+c.AppliesTo, 500)
	}
}

func containsID(ids datatypes.JSONSlice[string], id uuid.UUID) bool {
	for _, v := range ids {
		if v == id.String() {
			return true
		}
	}
	return false
}

// EmployeeComponent is an employee-specific allowance or deduction,
// optionally recurring over a fixed number of installments.
type EmployeeComponent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name          string `gorm:"type:varchar(120);not null"`
	ComponentType string `gorm:"type:varchar(20);not null"`

	AmountType string  `gorm:"type:varchar(20);not null;default:'fixed'"`
	Amount     float64 `gorm:"type:numeric(14,2);not null;default:0"`

	IsRecurring           bool `gorm:"not null;default:false"`
	RemainingInstallments *int `gorm:"type:int"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LegacyAllowance and LegacyDeduction predate configured components and are
// kept for backward compatibility with historical employee data.
type LegacyAllowance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(120);not null"`
	Amount     float64   `gorm:"type:numeric(14,2);not null;default:0"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type LegacyDeduction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(120);not null"`
	Amount     float64   `gorm:"type:numeric(14,2);not null;default:0"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
