package payrollrun

import (
	"time"

	"github.com/google/uuid"

	"go-payroll/internal/workcalendar"
)

const (
	RunStatusDraft       = "draft"
	RunStatusCalculating = "calculating"
	RunStatusCalculated  = "calculated"
	RunStatusProcessing  = "processing"
	RunStatusCompleted   = "completed"

	CalculationStatusPending    = "pending"
	CalculationStatusCalculated = "calculated"
	CalculationStatusError      = "error"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"

	CalculationMethodAttendance = "attendance_based"
	CalculationMethodFixed      = "fixed_salary"
)

// PayrollPeriod is an immutable calendar window set up ahead of time.
// The run orchestrator only reads it.
type PayrollPeriod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	PeriodStartDate time.Time `gorm:"type:date;not null"`
	PeriodEndDate   time.Time `gorm:"type:date;not null"`
	PeriodYear      int       `gorm:"type:int;not null"`
	PeriodNumber    int       `gorm:"type:int;not null"`
	PeriodType      string    `gorm:"type:varchar(20);not null;default:'monthly'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollRun is one calculation attempt for a period.
type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodID  uuid.UUID `gorm:"type:uuid;not null;index"`

	RunNumber         string `gorm:"type:varchar(30);not null"`
	RunStatus         string `gorm:"type:varchar(20);not null;default:'draft'"`
	CalculationMethod string `gorm:"type:varchar(30);not null;default:'attendance_based'"`

	TotalEmployees     int `gorm:"type:int;not null;default:0"`
	ProcessedEmployees int `gorm:"type:int;not null;default:0"`
	ErrorEmployees     int `gorm:"type:int;not null;default:0"`

	TotalGrossAmount      float64 `gorm:"type:numeric(16,2);not null;default:0"`
	TotalDeductionsAmount float64 `gorm:"type:numeric(16,2);not null;default:0"`
	TotalNetAmount        float64 `gorm:"type:numeric(16,2);not null;default:0"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollRecord is one employee's payroll snapshot within a run. The
// employee identity fields and the rate block are copied at draft creation
// so later org or schedule changes never alter a historical run.
type PayrollRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_records_run_employee,unique"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_records_run_employee,unique"`

	EmployeeCode    string  `gorm:"type:varchar(30);not null"`
	EmployeeName    string  `gorm:"type:varchar(120);not null"`
	DepartmentName  *string `gorm:"type:varchar(120)"`
	DesignationName *string `gorm:"type:varchar(120)"`

	BaseSalary              float64 `gorm:"type:numeric(14,2);not null"`
	AttendanceAffectsSalary bool    `gorm:"not null;default:true"`

	// Employee-effective period after pay-cycle resolution.
	PeriodStartDate time.Time `gorm:"type:date;not null"`
	PeriodEndDate   time.Time `gorm:"type:date;not null"`
	UsesCustomCycle bool      `gorm:"not null;default:false"`

	// Rate block: written once at draft creation, never recomputed. Every
	// later earned-salary computation for this record reads only these.
	WeekdayWorkingDays int     `gorm:"type:int;not null;default:0"`
	WorkingSaturdays   int     `gorm:"type:int;not null;default:0"`
	WorkingSundays     int     `gorm:"type:int;not null;default:0"`
	WeekdayDailyHours  float64 `gorm:"type:numeric(5,2);not null;default:0"`
	SaturdayDailyHours float64 `gorm:"type:numeric(5,2);not null;default:0"`
	SundayDailyHours   float64 `gorm:"type:numeric(5,2);not null;default:0"`
	DailySalary        float64 `gorm:"type:numeric(14,4);not null;default:0"`
	WeekdayHourlyRate  float64 `gorm:"type:numeric(14,4);not null;default:0"`
	SaturdayHourlyRate float64 `gorm:"type:numeric(14,4);not null;default:0"`
	SundayHourlyRate   float64 `gorm:"type:numeric(14,4);not null;default:0"`

	TotalEarnings   float64 `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions float64 `gorm:"type:numeric(14,2);not null;default:0"`
	TotalTaxes      float64 `gorm:"type:numeric(14,2);not null;default:0"`
	GrossSalary     float64 `gorm:"type:numeric(14,2);not null;default:0"`
	NetSalary       float64 `gorm:"type:numeric(14,2);not null;default:0"`

	CalculationStatus string     `gorm:"type:varchar(20);not null;default:'pending'"`
	CalculationError  *string    `gorm:"type:text"`
	CalculatedAt      *time.Time

	PaymentStatus    string     `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentMethod    *string    `gorm:"type:varchar(30)"`
	PaymentDate      *time.Time `gorm:"type:date"`
	PaymentReference *string    `gorm:"type:varchar(60)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rates bundles the record's rate block for the earned-salary engine.
type Rates struct {
	WeekdayDailyHours  float64
	SaturdayDailyHours float64
	SundayDailyHours   float64
	DailySalary        float64
	WeekdayHourlyRate  float64
	SaturdayHourlyRate float64
	SundayHourlyRate   float64
}

// DailyHours returns the scheduled shift length for a day type.
func (r Rates) DailyHours(dt workcalendar.DayType) float64 {
	switch dt {
	case workcalendar.DayTypeSaturday:
		return r.SaturdayDailyHours
	case workcalendar.DayTypeSunday:
		return r.SundayDailyHours
	default:
		return r.WeekdayDailyHours
	}
}

// HourlyRate returns the pay rate for a day type.
func (r Rates) HourlyRate(dt workcalendar.DayType) float64 {
	switch dt {
	case workcalendar.DayTypeSaturday:
		return r.SaturdayHourlyRate
	case workcalendar.DayTypeSunday:
		return r.SundayHourlyRate
	default:
		return r.WeekdayHourlyRate
	}
}

// Rates extracts the immutable rate block.
func (r PayrollRecord) Rates() Rates {
	return Rates{
		WeekdayDailyHours:  r.WeekdayDailyHours,
		SaturdayDailyHours: r.SaturdayDailyHours,
		SundayDailyHours:   r.SundayDailyHours,
		DailySalary:        r.DailySalary,
		WeekdayHourlyRate:  r.WeekdayHourlyRate,
		SaturdayHourlyRate: r.SaturdayHourlyRate,
		SundayHourlyRate:   r.SundayHourlyRate,
	}
}

// PayrollRecordComponent is one earning or deduction line item on a record.
// Components are recreated from scratch on every calculation.
type PayrollRecordComponent struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRecordID uuid.UUID `gorm:"type:uuid;not null;index"`

	ComponentCode     string  `gorm:"type:varchar(40);not null"`
	ComponentName     string  `gorm:"type:varchar(120);not null"`
	ComponentType     string  `gorm:"type:varchar(20);not null"`
	ComponentCategory string  `gorm:"type:varchar(20);not null"`
	CalculatedAmount  float64 `gorm:"type:numeric(14,2);not null"`

	// SourceID links a deduction back to the row it recovers against, e.g. a
	// loan or advance. The run-completed consumer settles balances from it.
	SourceID *string `gorm:"type:varchar(60);column:source_id"`
	Detail   *string `gorm:"type:text"`

	CreatedAt time.Time
}
