package finance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-payroll/internal/tenant"
)

// RunDeductionComponent is one loan or advance deduction row captured on a
// calculated payroll record, read back at settlement time.
type RunDeductionComponent struct {
	SourceID   string
	EmployeeID string
	Amount     float64
}

//go:generate mockgen -source=finance_repo.go -destination=mock/finance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindActiveDueInPeriod(ctx context.Context, companyID, employeeID string, periodEnd time.Time) ([]FinancialRecord, error)

	// FindApprovedBonuses returns bonuses payable inside the period that are
	// either unassigned or already bound to this run, so a recalculation
	// keeps seeing the bonuses it paid the first time.
	FindApprovedBonuses(ctx context.Context, companyID, employeeID, runID string, periodStart, periodEnd time.Time) ([]Bonus, error)

	// DecrementRemaining subtracts a collected installment and marks the
	// record settled when the balance reaches zero.
	DecrementRemaining(ctx context.Context, companyID, recordID string, amount float64) error
	MarkBonusPaid(ctx context.Context, companyID, bonusID, runID string) error

	// TrySettle inserts the ledger row guarding one (run, record)
	// installment. Returns false when an earlier delivery already
	// settled the pair.
	TrySettle(ctx context.Context, companyID, runID, recordID string, amount float64) (bool, error)

	// ListRunDeductionComponents reads the loan/advance component rows of a
	// completed run straight from the component table, so settlement works
	// from what was actually withheld.
	ListRunDeductionComponents(ctx context.Context, companyID, runID string) ([]RunDeductionComponent, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns the session every query must run on. With an attached
// transaction the session is rebound to it, so writes commit and roll
// back with the service transaction instead of the pool.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	session := r.db.Session(&gorm.Session{Context: ctx, NewDB: true, SkipDefaultTransaction: true})
	session.Statement.ConnPool = r.tx
	return session
}

func (r *repository) FindActiveDueInPeriod(ctx context.Context, companyID, employeeID string, periodEnd time.Time) ([]FinancialRecord, error) {
	var rows []FinancialRecord
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", RecordStatusActive).
		Where("remaining_amount > 0").
		Where("effective_from <= ?", periodEnd).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindApprovedBonuses(ctx context.Context, companyID, employeeID, runID string, periodStart, periodEnd time.Time) ([]Bonus, error) {
	var rows []Bonus
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", BonusStatusApproved).
		Where("paid_in_run_id IS NULL OR paid_in_run_id = ?", runID).
		Where("payable_from BETWEEN ? AND ?", periodStart, periodEnd).
		Find(&rows).Error
	return rows, err
}

func (r *repository) DecrementRemaining(ctx context.Context, companyID, recordID string, amount float64) error {
	db := r.conn(ctx)

	err := db.Model(&FinancialRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", recordID).
		UpdateColumn("remaining_amount", gorm.Expr("GREATEST(remaining_amount - ?, 0)", amount)).Error
	if err != nil {
		return err
	}

	return db.Model(&FinancialRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND remaining_amount <= 0", recordID).
		UpdateColumn("status", RecordStatusSettled).Error
}

func (r *repository) MarkBonusPaid(ctx context.Context, companyID, bonusID, runID string) error {
	return r.conn(ctx).
		Model(&Bonus{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", bonusID).
		UpdateColumn("paid_in_run_id", runID).Error
}

func (r *repository) TrySettle(ctx context.Context, companyID, runID, recordID string, amount float64) (bool, error) {
	entry := SettlementEntry{
		ID:                uuid.New(),
		CompanyID:         companyID,
		PayrollRunID:      runID,
		FinancialRecordID: recordID,
		Amount:            amount,
	}
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payroll_run_id"}, {Name: "financial_record_id"}},
			DoNothing: true,
		}).
		Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListRunDeductionComponents(ctx context.Context, companyID, runID string) ([]RunDeductionComponent, error) {
	var rows []RunDeductionComponent
	err := r.conn(ctx).
		Table("payroll_record_components AS c").
		Select("c.source_id, r.employee_id, c.calculated_amount AS amount").
		Joins("JOIN payroll_records r ON r.id = c.payroll_record_id").
		Where("r.company_id = ?", companyID).
		Where("r.payroll_run_id = ?", runID).
		Where("c.component_type = ?", "deduction").
		Where("c.source_id IS NOT NULL AND c.source_id <> ''").
		Scan(&rows).Error
	return rows, err
}
