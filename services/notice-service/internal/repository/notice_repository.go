package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/dto"
)

// NoticeRepository defines the interface for notice data access
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	FindByID(ctx context.Context, id uint) (*domain.Notice, error)
	List(ctx context.Context, filter dto.NoticeFilter, p pagination.Params) ([]*domain.Notice, int64, error)
	Update(ctx context.Context, notice *domain.Notice) error
	Delete(ctx context.Context, id uint) error
}

type noticeRepositoryImpl struct {
	*database.Store[domain.Notice]
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepositoryImpl{Store: database.NewStore[domain.Notice](db)}
}

func (r *noticeRepositoryImpl) List(ctx context.Context, filter dto.NoticeFilter, p pagination.Params) ([]*domain.Notice, int64, error) {
	return r.Store.List(ctx, p,
		database.Like("title", filter.Title),
		database.EqString("level", filter.Level),
		companyScope(filter.CompanyID),
	)
}

func companyScope(companyID *uint) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if companyID == nil {
			return db
		}
		return db.Where("company_id = ? OR company_id IS NULL", *companyID)
	}
}
