package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/dto"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	List(ctx context.Context, filter dto.ProductFilter, p pagination.Params) ([]*domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepositoryImpl struct {
	*database.Store[domain.Product]
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepositoryImpl{Store: database.NewStore[domain.Product](db)}
}

func (r *productRepositoryImpl) List(ctx context.Context, filter dto.ProductFilter, p pagination.Params) ([]*domain.Product, int64, error) {
	return r.Store.List(ctx, p,
		database.Like("name", filter.Name),
		database.Eq("enabled", filter.Enabled),
	)
}
