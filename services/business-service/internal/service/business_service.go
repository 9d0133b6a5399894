package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/pkg/validation"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/repository"
)

// BusinessService defines the interface for business logic
type BusinessService interface {
	ListBusinesses(ctx context.Context, filter dto.BusinessFilter, p pagination.Params) (*pagination.Page[*dto.BusinessResponse], error)
	GetBusiness(ctx context.Context, id uint) (*dto.BusinessResponse, error)
	CreateBusiness(ctx context.Context, req *dto.CreateBusinessRequest) (*dto.BusinessResponse, error)
	UpdateBusiness(ctx context.Context, id uint, req *dto.UpdateBusinessRequest) (*dto.BusinessResponse, error)
	DeleteBusiness(ctx context.Context, id uint) error
}

type businessServiceImpl struct {
	repo    repository.BusinessRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewBusinessService(repo repository.BusinessRepository, logger *zap.Logger, m *metrics.Metrics) BusinessService {
	return &businessServiceImpl{repo: repo, logger: logger, metrics: m}
}

// optionalDate parses value, treating an empty string as no date
func optionalDate(field, value string) (*datatypes.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := validation.ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

func checkDates(b *domain.Business) error {
	if b.Issued == nil || b.Expired == nil {
		return nil
	}
	return validation.CheckRange(time.Time(*b.Issued), time.Time(*b.Expired))
}

func (s *businessServiceImpl) ListBusinesses(ctx context.Context, filter dto.BusinessFilter, p pagination.Params) (*pagination.Page[*dto.BusinessResponse], error) {
	businesses, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, response.StoreError(s.logger, "list businesses", "Business", err)
	}
	return pagination.Map(pagination.NewPage(businesses, total, p), toBusinessResponse), nil
}

func (s *businessServiceImpl) GetBusiness(ctx context.Context, id uint) (*dto.BusinessResponse, error) {
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get business", "Business", err)
	}
	return toBusinessResponse(business), nil
}

func (s *businessServiceImpl) CreateBusiness(ctx context.Context, req *dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	business := &domain.Business{
		Name:           req.Name,
		History:        req.History,
		LicenseKey:     strings.TrimSpace(req.LicenseKey),
		ProductVersion: req.ProductVersion,
	}

	var err error
	if business.Issued, err = optionalDate("issued", req.Issued); err != nil {
		return nil, err
	}
	if business.Expired, err = optionalDate("expired", req.Expired); err != nil {
		return nil, err
	}
	if err := checkDates(business); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, business); err != nil {
		return nil, response.StoreError(s.logger, "create business", "Business", err)
	}

	s.metrics.IncrementEntityCreated("business")
	s.logger.Info("Business created", zap.Uint("business_id", business.ID), zap.String("name", business.Name))
	return toBusinessResponse(business), nil
}

func (s *businessServiceImpl) UpdateBusiness(ctx context.Context, id uint, req *dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get business", "Business", err)
	}

	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.History != nil {
		business.History = *req.History
	}
	if req.LicenseKey != nil {
		business.LicenseKey = strings.TrimSpace(*req.LicenseKey)
	}
	if req.ProductVersion != nil {
		business.ProductVersion = *req.ProductVersion
	}
	if req.Issued != nil {
		if business.Issued, err = optionalDate("issued", *req.Issued); err != nil {
			return nil, err
		}
	}
	if req.Expired != nil {
		if business.Expired, err = optionalDate("expired", *req.Expired); err != nil {
			return nil, err
		}
	}
	if err := checkDates(business); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, response.StoreError(s.logger, "update business", "Business", err)
	}
	return toBusinessResponse(business), nil
}

func (s *businessServiceImpl) DeleteBusiness(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return response.StoreError(s.logger, "delete business", "Business", err)
	}
	s.logger.Info("Business deleted", zap.Uint("business_id", id))
	return nil
}

func formatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return validation.FormatDate(time.Time(*d))
}

func toBusinessResponse(b *domain.Business) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:             b.ID,
		Name:           b.Name,
		Issued:         formatDate(b.Issued),
		Expired:        formatDate(b.Expired),
		History:        b.History,
		LicenseKey:     b.LicenseKey,
		ProductVersion: b.ProductVersion,
		Created:        b.Created,
		Updated:        b.Updated,
	}
}
