package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/repository"
)

// MockPartnerRepository is a mock implementation of PartnerRepository
type MockPartnerRepository struct {
	CreateFunc   func(ctx context.Context, partner *domain.Partner) error
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Partner, error)
	ListFunc     func(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) ([]*domain.Partner, int64, error)
	UpdateFunc   func(ctx context.Context, partner *domain.Partner) error
	DeleteFunc   func(ctx context.Context, id uint) error
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, partner)
	}
	return nil
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uint) (*domain.Partner, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPartnerRepository) List(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) ([]*domain.Partner, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, p)
	}
	return nil, 0, nil
}

func (m *MockPartnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, partner)
	}
	return nil
}

func (m *MockPartnerRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCreditRepository is a mock implementation of CreditRepository
type MockCreditRepository struct {
	CreateFunc   func(ctx context.Context, credit *domain.Credit) error
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Credit, error)
	ListFunc     func(ctx context.Context, filter dto.CreditFilter, p pagination.Params) ([]*domain.Credit, int64, error)
	UpdateFunc   func(ctx context.Context, credit *domain.Credit) error
	DeleteFunc   func(ctx context.Context, id uint) error
	TotalsFunc   func(ctx context.Context, partnerID uint) (*repository.CreditTotals, error)

	PartnerNamesFunc func(ctx context.Context, ids []uint) (map[uint]string, error)
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, credit)
	}
	return nil
}

func (m *MockCreditRepository) FindByID(ctx context.Context, id uint) (*domain.Credit, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockCreditRepository) List(ctx context.Context, filter dto.CreditFilter, p pagination.Params) ([]*domain.Credit, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, p)
	}
	return nil, 0, nil
}

func (m *MockCreditRepository) Update(ctx context.Context, credit *domain.Credit) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, credit)
	}
	return nil
}

func (m *MockCreditRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCreditRepository) Totals(ctx context.Context, partnerID uint) (*repository.CreditTotals, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, partnerID)
	}
	return &repository.CreditTotals{}, nil
}

func (m *MockCreditRepository) PartnerNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	if m.PartnerNamesFunc != nil {
		return m.PartnerNamesFunc(ctx, ids)
	}
	return map[uint]string{}, nil
}

// MockBusinessClient is a mock implementation of BusinessClient
type MockBusinessClient struct {
	GetBusinessFunc     func(ctx context.Context, id uint, token string) (*client.Business, error)
	FindBusinessIDsFunc func(ctx context.Context, name, token string) ([]uint, error)
}

func (m *MockBusinessClient) GetBusiness(ctx context.Context, id uint, token string) (*client.Business, error) {
	if m.GetBusinessFunc != nil {
		return m.GetBusinessFunc(ctx, id, token)
	}
	return nil, errors.New("not found")
}

func (m *MockBusinessClient) FindBusinessIDs(ctx context.Context, name, token string) ([]uint, error) {
	if m.FindBusinessIDsFunc != nil {
		return m.FindBusinessIDsFunc(ctx, name, token)
	}
	return []uint{}, nil
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Customer, error)
	ListFunc     func(ctx context.Context, filter dto.CustomerFilter, p pagination.Params) ([]*domain.Customer, int64, error)
	UpdateFunc   func(ctx context.Context, customer *domain.Customer) error
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return nil
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockCustomerRepository) List(ctx context.Context, filter dto.CustomerFilter, p pagination.Params) ([]*domain.Customer, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, p)
	}
	return nil, 0, nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) error {
	return gorm.ErrRecordNotFound
}
