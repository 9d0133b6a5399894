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

// PartnerService defines the interface for partner business logic
type PartnerService interface {
	ListPartners(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) (*pagination.Page[*domain.Partner], error)
	GetPartner(ctx context.Context, id uint) (*domain.Partner, error)
	CreatePartner(ctx context.Context, req *dto.CreatePartnerRequest) (*domain.Partner, error)
	UpdatePartner(ctx context.Context, id uint, req *dto.UpdatePartnerRequest) (*domain.Partner, error)
	DeletePartner(ctx context.Context, id uint) error
}

type partnerServiceImpl struct {
	repo    repository.PartnerRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPartnerService(repo repository.PartnerRepository, logger *zap.Logger, m *metrics.Metrics) PartnerService {
	return &partnerServiceImpl{repo: repo, logger: logger, metrics: m}
}

func parseLevel(raw string) (domain.PartnerLevel, error) {
	level := domain.PartnerLevel(raw)
	if !level.IsValid() {
		return "", response.NewValidationError("level must be one of: PLATINUM, GOLD, SILVER, VAR", raw)
	}
	return level, nil
}

func (s *partnerServiceImpl) ListPartners(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) (*pagination.Page[*domain.Partner], error) {
	if filter.Level != "" {
		if _, err := parseLevel(filter.Level); err != nil {
			return nil, err
		}
	}
	partners, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, response.StoreError(s.logger, "list partners", "Partner", err)
	}
	return pagination.NewPage(partners, total, p), nil
}

func (s *partnerServiceImpl) GetPartner(ctx context.Context, id uint) (*domain.Partner, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get partner", "Partner", err)
	}
	return partner, nil
}

func (s *partnerServiceImpl) CreatePartner(ctx context.Context, req *dto.CreatePartnerRequest) (*domain.Partner, error) {
	level := domain.PartnerLevelGold
	if req.Level != "" {
		var err error
		if level, err = parseLevel(req.Level); err != nil {
			return nil, err
		}
	}

	partner := &domain.Partner{Name: req.Name, Telnum: req.Telnum, Level: level}
	if err := s.repo.Create(ctx, partner); err != nil {
		return nil, response.StoreError(s.logger, "create partner", "Partner", err)
	}

	s.metrics.IncrementEntityCreated("partner")
	s.logger.Info("Partner created", zap.Uint("partner_id", partner.ID), zap.String("level", string(level)))
	return partner, nil
}

func (s *partnerServiceImpl) UpdatePartner(ctx context.Context, id uint, req *dto.UpdatePartnerRequest) (*domain.Partner, error) {
	partner, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.Telnum != nil {
		partner.Telnum = *req.Telnum
	}
	if req.Level != nil {
		if partner.Level, err = parseLevel(*req.Level); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, partner); err != nil {
		return nil, response.StoreError(s.logger, "update partner", "Partner", err)
	}
	return partner, nil
}

func (s *partnerServiceImpl) DeletePartner(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return response.StoreError(s.logger, "delete partner", "Partner", err)
	}
	s.logger.Info("Partner deleted", zap.Uint("partner_id", id))
	return nil
}
