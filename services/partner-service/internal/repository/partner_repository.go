package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
)

// PartnerRepository defines the interface for partner data access
type PartnerRepository interface {
	Create(ctx context.Context, partner *domain.Partner) error
	FindByID(ctx context.Context, id uint) (*domain.Partner, error)
	List(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) ([]*domain.Partner, int64, error)
	Update(ctx context.Context, partner *domain.Partner) error
	Delete(ctx context.Context, id uint) error
}

type partnerRepositoryImpl struct {
	*database.Store[domain.Partner]
}

func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepositoryImpl{Store: database.NewStore[domain.Partner](db)}
}

func (r *partnerRepositoryImpl) List(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) ([]*domain.Partner, int64, error) {
	return r.Store.List(ctx, p,
		database.Like("name", filter.Name),
		database.EqString("level", filter.Level),
	)
}
