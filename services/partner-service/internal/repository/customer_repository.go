package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id uint) (*domain.Customer, error)
	List(ctx context.Context, filter dto.CustomerFilter, p pagination.Params) ([]*domain.Customer, int64, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uint) error
}

type customerRepositoryImpl struct {
	*database.Store[domain.Customer]
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepositoryImpl{Store: database.NewStore[domain.Customer](db)}
}

func (r *customerRepositoryImpl) List(ctx context.Context, filter dto.CustomerFilter, p pagination.Params) ([]*domain.Customer, int64, error) {
	return r.Store.List(ctx, p,
		database.Like("name", filter.Name),
		database.EqString("manager_id", filter.ManagerID),
		database.EqString("manager_company_id", filter.ManagerCompanyID),
	)
}
