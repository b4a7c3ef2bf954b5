package finance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecordTypeLoan    = "loan"
	RecordTypeAdvance = "advance"

	RecordStatusActive  = "active"
	RecordStatusSettled = "settled"

	BonusStatusApproved = "approved"
)

// FinancialRecord is an outstanding loan or salary advance that payroll
// recovers from as a per-period deduction until the balance reaches zero.
type FinancialRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	RecordType string `gorm:"type:varchar(20);not null"`

	TotalAmount     float64 `gorm:"type:numeric(14,2);not null"`
	DeductionAmount float64 `gorm:"type:numeric(14,2);not null"`
	RemainingAmount float64 `gorm:"type:numeric(14,2);not null"`

	EffectiveFrom time.Time `gorm:"type:date;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'active'"`
	Notes         *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// PeriodDeduction caps the per-period installment at the remaining balance
// so the final installment never overshoots.
func (r FinancialRecord) PeriodDeduction() float64 {
	if r.RemainingAmount <= 0 {
		return 0
	}
	if r.DeductionAmount > r.RemainingAmount {
		return r.RemainingAmount
	}
	return r.DeductionAmount
}

// SettlementEntry pins one applied installment to the run that withheld it.
// The unique (run, record) pair keeps a redelivered run-completed event from
// decrementing the same balance twice.
type SettlementEntry struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         string    `gorm:"type:uuid;not null;index"`
	PayrollRunID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_run_record"`
	FinancialRecordID string    `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_run_record"`
	Amount            float64   `gorm:"type:numeric(14,2);not null"`

	CreatedAt time.Time
}

// Bonus is a one-off approved payment included in the first run whose
// period covers PayableFrom.
type Bonus struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name   string  `gorm:"type:varchar(120);not null"`
	Amount float64 `gorm:"type:numeric(14,2);not null"`

	PayableFrom time.Time  `gorm:"type:date;not null"`
	Status      string     `gorm:"type:varchar(20);not null"`
	PaidInRunID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
