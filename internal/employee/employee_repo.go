package employee

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

// PayrollFilter narrows the set of employees included in a payroll run.
type PayrollFilter struct {
	DepartmentID   *string
	EmploymentType *string
	EmployeeIDs    []string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	FindActiveForPayroll(ctx context.Context, companyID string, filter PayrollFilter) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindActiveForPayroll(ctx context.Context, companyID string, filter PayrollFilter) ([]Employee, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusActive)

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.EmploymentType != nil && *filter.EmploymentType != "" {
		q = q.Where("employment_type = ?", *filter.EmploymentType)
	}
	if len(filter.EmployeeIDs) > 0 {
		q = q.Where("id IN ?", filter.EmployeeIDs)
	}

	var employees []Employee
	err := q.Order("employee_code ASC").Find(&employees).Error
	return employees, err
}
