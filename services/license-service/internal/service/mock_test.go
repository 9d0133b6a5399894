package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/dto"
)

// MockLicenseRepository is a mock implementation of LicenseRepository
type MockLicenseRepository struct {
	CreateFunc       func(ctx context.Context, license *domain.License) error
	FindByIDFunc     func(ctx context.Context, id uint) (*domain.License, error)
	FindByKeyFunc    func(ctx context.Context, key string) (*domain.License, error)
	ListFunc         func(ctx context.Context, filter dto.LicenseFilter, p pagination.Params) ([]*domain.License, int64, error)
	UpdateFunc       func(ctx context.Context, license *domain.License) error
	DeleteFunc       func(ctx context.Context, id uint) error
	ExpireBeforeFunc func(ctx context.Context, day time.Time) (int64, error)
}

func (m *MockLicenseRepository) Create(ctx context.Context, license *domain.License) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, license)
	}
	return nil
}

func (m *MockLicenseRepository) FindByID(ctx context.Context, id uint) (*domain.License, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockLicenseRepository) FindByKey(ctx context.Context, key string) (*domain.License, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, key)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockLicenseRepository) List(ctx context.Context, filter dto.LicenseFilter, p pagination.Params) ([]*domain.License, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, p)
	}
	return nil, 0, nil
}

func (m *MockLicenseRepository) Update(ctx context.Context, license *domain.License) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, license)
	}
	return nil
}

func (m *MockLicenseRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockLicenseRepository) ExpireBefore(ctx context.Context, day time.Time) (int64, error) {
	if m.ExpireBeforeFunc != nil {
		return m.ExpireBeforeFunc(ctx, day)
	}
	return 0, nil
}

// MockCatalogClient is a mock implementation of CatalogClient
type MockCatalogClient struct {
	GetProductFunc  func(ctx context.Context, id uint, token string) (*client.Product, error)
	GetBusinessFunc func(ctx context.Context, id uint, token string) (*client.Business, error)

	MarkBusinessLicensedFunc func(ctx context.Context, id uint, licenseKey, productVersion, token string) error
}

func (m *MockCatalogClient) GetProduct(ctx context.Context, id uint, token string) (*client.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id, token)
	}
	return nil, nil
}

func (m *MockCatalogClient) GetBusiness(ctx context.Context, id uint, token string) (*client.Business, error) {
	if m.GetBusinessFunc != nil {
		return m.GetBusinessFunc(ctx, id, token)
	}
	return nil, nil
}

func (m *MockCatalogClient) MarkBusinessLicensed(ctx context.Context, id uint, licenseKey, productVersion, token string) error {
	if m.MarkBusinessLicensedFunc != nil {
		return m.MarkBusinessLicensedFunc(ctx, id, licenseKey, productVersion, token)
	}
	return nil
}
