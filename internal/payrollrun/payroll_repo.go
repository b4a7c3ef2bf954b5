package payrollrun

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindPeriodByIDAndCompany(ctx context.Context, companyID, periodID string) (*PayrollPeriod, error)
	HasRunForPeriod(ctx context.Context, companyID, periodID string) (bool, error)

	CreateRun(ctx context.Context, run *PayrollRun) error
	UpdateRun(ctx context.Context, run *PayrollRun) error
	FindRunByIDAndCompany(ctx context.Context, companyID, runID string) (*PayrollRun, error)
	FindAllRunsByCompany(ctx context.Context, companyID string) ([]PayrollRun, error)

	CreateRecords(ctx context.Context, records []PayrollRecord) error
	UpdateRecord(ctx context.Context, record *PayrollRecord) error
	FindRecordsByRun(ctx context.Context, companyID, runID string) ([]PayrollRecord, error)
	FindRecordByRunAndEmployee(ctx context.Context, companyID, runID, employeeID string) (*PayrollRecord, error)

	// ReplaceComponents deletes the record's existing component rows and
	// inserts the fresh set; components never survive a recalculation.
	ReplaceComponents(ctx context.Context, recordID string, components []PayrollRecordComponent) error
	FindComponentsByRecord(ctx context.Context, recordID string) ([]PayrollRecordComponent, error)

	// FindComponentsByRun fetches every component row of the run in one
	// query; callers group them per record in memory.
	FindComponentsByRun(ctx context.Context, companyID, runID string) ([]PayrollRecordComponent, error)

	MarkRecordsPaid(ctx context.Context, companyID, runID string, method string, date time.Time, reference string) error

	// DeleteRunCascade hard-deletes the run with its records and components.
	DeleteRunCascade(ctx context.Context, companyID, runID string) error
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

func (r *repository) FindPeriodByIDAndCompany(ctx context.Context, companyID, periodID string) (*PayrollPeriod, error) {
	var period PayrollPeriod
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&period, "id = ?", periodID).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *repository) HasRunForPeriod(ctx context.Context, companyID, periodID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&PayrollRun{}).
		Scopes(tenant.Scope(companyID)).
		Where("period_id = ?", periodID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.conn(ctx).Create(run).Error
}

func (r *repository) UpdateRun(ctx context.Context, run *PayrollRun) error {
	return r.conn(ctx).Save(run).Error
}

func (r *repository) FindRunByIDAndCompany(ctx context.Context, companyID, runID string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", runID).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindAllRunsByCompany(ctx context.Context, companyID string) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) CreateRecords(ctx context.Context, records []PayrollRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.conn(ctx).CreateInBatches(records, 100).Error
}

func (r *repository) UpdateRecord(ctx context.Context, record *PayrollRecord) error {
	return r.conn(ctx).Save(record).Error
}

func (r *repository) FindRecordsByRun(ctx context.Context, companyID, runID string) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Order("employee_code ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindRecordByRunAndEmployee(ctx context.Context, companyID, runID, employeeID string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("employee_id = ?", employeeID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ReplaceComponents(ctx context.Context, recordID string, components []PayrollRecordComponent) error {
	db := r.conn(ctx)
	if err := db.Where("payroll_record_id = ?", recordID).
		Delete(&PayrollRecordComponent{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	return db.CreateInBatches(components, 200).Error
}

func (r *repository) FindComponentsByRecord(ctx context.Context, recordID string) ([]PayrollRecordComponent, error) {
	var rows []PayrollRecordComponent
	err := r.conn(ctx).
		Where("payroll_record_id = ?", recordID).
		Order("component_type ASC, component_code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindComponentsByRun(ctx context.Context, companyID, runID string) ([]PayrollRecordComponent, error) {
	var rows []PayrollRecordComponent
	err := r.conn(ctx).
		Joins("JOIN payroll_records rec ON rec.id = payroll_record_components.payroll_record_id").
		Where("rec.company_id = ?", companyID).
		Where("rec.payroll_run_id = ?", runID).
		Order("payroll_record_components.component_type ASC, payroll_record_components.component_code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) MarkRecordsPaid(ctx context.Context, companyID, runID string, method string, date time.Time, reference string) error {
	return r.conn(ctx).
		Model(&PayrollRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("calculation_status = ?", CalculationStatusCalculated).
		Updates(map[string]any{
			"payment_status":    PaymentStatusPaid,
			"payment_method":    method,
			"payment_date":      date,
			"payment_reference": reference,
		}).Error
}

func (r *repository) DeleteRunCascade(ctx context.Context, companyID, runID string) error {
	db := r.conn(ctx)

	err := db.Exec(`
		DELETE FROM payroll_record_components
		WHERE payroll_record_id IN (
			SELECT id FROM payroll_records
			WHERE company_id = ? AND payroll_run_id = ?
		)
	`, companyID, runID).Error
	if err != nil {
		return err
	}

	if err := db.Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Delete(&PayrollRecord{}).Error; err != nil {
		return err
	}

	return db.Scopes(tenant.Scope(companyID)).
		Delete(&PayrollRun{}, "id = ?", runID).Error
}
