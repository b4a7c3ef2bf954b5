package leave

import (
	"context"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	// FindApprovedOverlapping returns approved leave requests whose date range
	// intersects [from, to], paid and unpaid alike.
	FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Leave, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Leave, error) {
	var rows []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", from, to).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}
