package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/dto"
)

// LicenseRepository defines the interface for license data access
type LicenseRepository interface {
	Create(ctx context.Context, license *domain.License) error
	FindByID(ctx context.Context, id uint) (*domain.License, error)
	FindByKey(ctx context.Context, key string) (*domain.License, error)
	List(ctx context.Context, filter dto.LicenseFilter, p pagination.Params) ([]*domain.License, int64, error)
	Update(ctx context.Context, license *domain.License) error
	Delete(ctx context.Context, id uint) error
	ExpireBefore(ctx context.Context, day time.Time) (int64, error)
}

type licenseRepositoryImpl struct {
	*database.Store[domain.License]
}

// NewLicenseRepository creates a new instance of LicenseRepository
func NewLicenseRepository(db *gorm.DB) LicenseRepository {
	return &licenseRepositoryImpl{Store: database.NewStore[domain.License](db)}
}

// FindByKey looks a key up including removed rows, since the unique index covers them too
func (r *licenseRepositoryImpl) FindByKey(ctx context.Context, key string) (*domain.License, error) {
	var license domain.License
	if err := r.Conn(ctx).Unscoped().
		Where("license_key = ?", key).
		First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepositoryImpl) List(ctx context.Context, filter dto.LicenseFilter, p pagination.Params) ([]*domain.License, int64, error) {
	return r.Store.List(ctx, p,
		database.Eq("product_id", filter.ProductID),
		database.EqString("product_type", filter.ProductType),
		database.Eq("business_id", filter.BusinessID),
		database.Eq("company_id", filter.CompanyID),
		database.Eq("trial", filter.Trial),
		database.EqString("status", filter.Status),
		database.Like("license_key", filter.LicenseKey),
	)
}

// ExpireBefore marks active licenses whose expired date is before day as expired
func (r *licenseRepositoryImpl) ExpireBefore(ctx context.Context, day time.Time) (int64, error) {
	result := r.Conn(ctx).
		Model(&domain.License{}).
		Where("status = ? AND expired < ?", domain.LicenseStatusActive, day).
		Update("status", domain.LicenseStatusExpired)
	return result.RowsAffected, result.Error
}
