package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/repository"
)

// CustomerService defines the interface for customer business logic
type CustomerService interface {
	ListCustomers(ctx context.Context, filter dto.CustomerFilter, p pagination.Params) (*pagination.Page[*domain.Customer], error)
	GetCustomer(ctx context.Context, id uint) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, req *dto.UpdateCustomerRequest) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type customerServiceImpl struct {
	repo    repository.CustomerRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewCustomerService(repo repository.CustomerRepository, logger *zap.Logger, m *metrics.Metrics) CustomerService {
	return &customerServiceImpl{repo: repo, logger: logger, metrics: m}
}

func (s *customerServiceImpl) ListCustomers(ctx context.Context, filter dto.CustomerFilter, p pagination.Params) (*pagination.Page[*domain.Customer], error) {
	customers, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, response.StoreError(s.logger, "list customers", "Customer", err)
	}
	return pagination.NewPage(customers, total, p), nil
}

func (s *customerServiceImpl) GetCustomer(ctx context.Context, id uint) (*domain.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get customer", "Customer", err)
	}
	return customer, nil
}

func (s *customerServiceImpl) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*domain.Customer, error) {
	customer := &domain.Customer{
		Name:             req.Name,
		Telnum:           req.Telnum,
		ManagerID:        req.ManagerID,
		ManagerCompanyID: req.ManagerCompanyID,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, response.StoreError(s.logger, "create customer", "Customer", err)
	}

	s.metrics.IncrementEntityCreated("customer")
	s.logger.Info("Customer created", zap.Uint("customer_id", customer.ID), zap.String("manager_id", customer.ManagerID))
	return customer, nil
}

func (s *customerServiceImpl) UpdateCustomer(ctx context.Context, id uint, req *dto.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Telnum != nil {
		customer.Telnum = *req.Telnum
	}
	if req.ManagerID != nil {
		customer.ManagerID = *req.ManagerID
	}
	if req.ManagerCompanyID != nil {
		customer.ManagerCompanyID = *req.ManagerCompanyID
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, response.StoreError(s.logger, "update customer", "Customer", err)
	}
	return customer, nil
}

func (s *customerServiceImpl) DeleteCustomer(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return response.StoreError(s.logger, "delete customer", "Customer", err)
	}
	return nil
}
