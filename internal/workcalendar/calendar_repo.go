package workcalendar

import (
	"context"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=calendar_repo.go -destination=mock/calendar_repo_mock.go -package=mock
type Repository interface {
	// FindInRange fetches every holiday in [from, to] for the company, one
	// query per resolution pass; per-day checks then run in memory.
	FindInRange(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error)
	FindByDate(ctx context.Context, companyID string, date time.Time) ([]Holiday, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindInRange(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("holiday_date BETWEEN ? AND ?", from, to).
		Order("holiday_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDate(ctx context.Context, companyID string, date time.Time) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("holiday_date = ?", date).
		Find(&rows).Error
	return rows, err
}
