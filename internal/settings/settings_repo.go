package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=settings_repo.go -destination=mock/settings_repo_mock.go -package=mock
type Repository interface {
	// FindByCompany returns the company's payroll settings, falling back to
	// defaults when no row exists. Missing settings never fail a calculation.
	FindByCompany(ctx context.Context, companyID string) (PayrollSettings, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByCompany(ctx context.Context, companyID string) (PayrollSettings, error) {
	var s PayrollSettings
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			id, parseErr := uuid.Parse(companyID)
			if parseErr != nil {
				return PayrollSettings{}, parseErr
			}
			return Defaults(id), nil
		}
		return PayrollSettings{}, err
	}
	return s, nil
}
