package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/dto"
)

// BusinessRepository defines the interface for business data access
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	FindByID(ctx context.Context, id uint) (*domain.Business, error)
	List(ctx context.Context, filter dto.BusinessFilter, p pagination.Params) ([]*domain.Business, int64, error)
	Update(ctx context.Context, business *domain.Business) error
	Delete(ctx context.Context, id uint) error
}

type businessRepositoryImpl struct {
	*database.Store[domain.Business]
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepositoryImpl{Store: database.NewStore[domain.Business](db)}
}

func (r *businessRepositoryImpl) List(ctx context.Context, filter dto.BusinessFilter, p pagination.Params) ([]*domain.Business, int64, error) {
	return r.Store.List(ctx, p,
		database.Like("name", filter.Name),
		availableScope(filter.Available),
	)
}

func availableScope(available bool) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if !available {
			return db
		}
		return db.Where("license_key = ? OR license_key IS NULL", "")
	}
}
