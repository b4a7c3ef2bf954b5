package salarycomponent

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"go-payroll/internal/tenant"
)

//go:generate mockgen -source=component_repo.go -destination=mock/component_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindActiveComponents(ctx context.Context, companyID string) ([]SalaryComponent, error)
	FindActiveEmployeeComponents(ctx context.Context, companyID, employeeID string) ([]EmployeeComponent, error)
	FindLegacyAllowances(ctx context.Context, companyID, employeeID string) ([]LegacyAllowance, error)
	FindLegacyDeductions(ctx context.Context, companyID, employeeID string) ([]LegacyDeduction, error)

	// DecrementInstallment reduces the remaining installment count by one and
	// deactivates the component when it reaches zero.
	DecrementInstallment(ctx context.Context, companyID, componentID string) error
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

func (r *repository) FindActiveComponents(ctx context.Context, companyID string) ([]SalaryComponent, error) {
	var rows []SalaryComponent
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("component_type ASC, code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveEmployeeComponents(ctx context.Context, companyID, employeeID string) ([]EmployeeComponent, error) {
	var rows []EmployeeComponent
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLegacyAllowances(ctx context.Context, companyID, employeeID string) ([]LegacyAllowance, error) {
	var rows []LegacyAllowance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLegacyDeductions(ctx context.Context, companyID, employeeID string) ([]LegacyDeduction, error) {
	var rows []LegacyDeduction
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Find(&rows).Error
	return rows, err
}

func (r *repository) DecrementInstallment(ctx context.Context, companyID, componentID string) error {
	db := r.conn(ctx)

	err := db.Model(&EmployeeComponent{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND remaining_installments IS NOT NULL AND remaining_installments > 0", componentID).
		UpdateColumn("remaining_installments", gorm.Expr("remaining_installments - 1")).Error
	if err != nil {
		return err
	}

	return db.Model(&EmployeeComponent{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND remaining_installments = 0", componentID).
		UpdateColumn("is_active", false).Error
}
