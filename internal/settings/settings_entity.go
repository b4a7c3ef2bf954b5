package settings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	defaultWorkingHoursPerDay        = 8.0
	defaultOvertimeMultiplier        = 1.5
	defaultHolidayOvertimeMultiplier = 2.0
)

// WorkingHoursConfig is the typed form of the working_hours_config jsonb
// column. All fields are optional overrides.
type WorkingHoursConfig struct {
	OvertimeMultiplier        *float64     `json:"overtime_multiplier,omitempty"`
	HolidayOvertimeMultiplier *float64     `json:"holiday_overtime_multiplier,omitempty"`
	TaxBrackets               []TaxBracket `json:"tax_brackets,omitempty"`
}

// TaxBracket taxes the slice of monthly income up to UpTo at Rate.
// A zero UpTo marks the open-ended top bracket.
type TaxBracket struct {
	UpTo float64 `json:"up_to"`
	Rate float64 `json:"rate"`
}

type PayrollSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	WorkingHoursPerDay float64 `gorm:"type:numeric(4,2);not null;default:8"`

	SaturdayWorking bool `gorm:"not null;default:false"`
	SundayWorking   bool `gorm:"not null;default:false"`

	EnableOvertimeCalculation bool     `gorm:"not null;default:false"`
	OvertimeRateMultiplier    *float64 `gorm:"type:numeric(4,2)"`

	WorkingHoursConfig datatypes.JSONType[WorkingHoursConfig] `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Defaults returns the settings used when a company has no row yet.
func Defaults(companyID uuid.UUID) PayrollSettings {
	return PayrollSettings{
		CompanyID:          companyID,
		WorkingHoursPerDay: defaultWorkingHoursPerDay,
	}
}

// DailyHours returns working_hours_per_day, guarding against a zeroed row.
func (s PayrollSettings) DailyHours() float64 {
	if s.WorkingHoursPerDay <= 0 {
		return defaultWorkingHoursPerDay
	}
	return s.WorkingHoursPerDay
}

// OvertimeMultiplier resolves the plain overtime multiplier through the
// legacy fallback chain: working_hours_config override, then the
// overtime_rate_multiplier column, then 1.5.
func (s PayrollSettings) OvertimeMultiplier() float64 {
	cfg := s.WorkingHoursConfig.Data()
	if cfg.OvertimeMultiplier != nil && *cfg.OvertimeMultiplier > 0 {
		return *cfg.OvertimeMultiplier
	}
	if s.OvertimeRateMultiplier != nil && *s.OvertimeRateMultiplier > 0 {
		return *s.OvertimeRateMultiplier
	}
	return defaultOvertimeMultiplier
}

// HolidayOvertimeMultiplier resolves the holiday multiplier; it is never
// below the plain multiplier.
func (s PayrollSettings) HolidayOvertimeMultiplier() float64 {
	cfg := s.WorkingHoursConfig.Data()
	m := defaultHolidayOvertimeMultiplier
	if cfg.HolidayOvertimeMultiplier != nil && *cfg.HolidayOvertimeMultiplier > 0 {
		m = *cfg.HolidayOvertimeMultiplier
	}
	if plain := s.OvertimeMultiplier(); m < plain {
		return plain
	}
	return m
}

// ProgressiveTax applies the configured monthly brackets to a taxable amount.
// No configured brackets means no withholding.
func (s PayrollSettings) ProgressiveTax(amount float64) float64 {
	brackets := s.WorkingHoursConfig.Data().TaxBrackets
	if len(brackets) == 0 || amount <= 0 {
		return 0
	}

	tax := 0.0
	lower := 0.0
	for _, b := range brackets {
		upper := b.UpTo
		if upper <= 0 || upper > amount {
			upper = amount
		}
		if upper > lower {
			tax += (upper - lower) * b.Rate
		}
		if b.UpTo <= 0 || b.UpTo >= amount {
			break
		}
		lower = b.UpTo
	}
	return tax
}
