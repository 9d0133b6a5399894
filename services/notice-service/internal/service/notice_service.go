package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/repository"
)

// NoticeService defines the interface for notice business logic
type NoticeService interface {
	ListNotices(ctx context.Context, filter dto.NoticeFilter, p pagination.Params) (*pagination.Page[*domain.Notice], error)
	GetNotice(ctx context.Context, id uint) (*domain.Notice, error)
	CreateNotice(ctx context.Context, req *dto.CreateNoticeRequest, writer string) (*domain.Notice, error)
	UpdateNotice(ctx context.Context, id uint, req *dto.UpdateNoticeRequest) (*domain.Notice, error)
	DeleteNotice(ctx context.Context, id uint) error
}

type noticeServiceImpl struct {
	repo    repository.NoticeRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewNoticeService(repo repository.NoticeRepository, logger *zap.Logger, m *metrics.Metrics) NoticeService {
	return &noticeServiceImpl{repo: repo, logger: logger, metrics: m}
}

func parseLevel(raw string) (domain.NoticeLevel, error) {
	level := domain.NoticeLevel(raw)
	if !level.IsValid() {
		return "", response.NewValidationError("level must be one of: ALL, PLATINUM, GOLD, SILVER, VAR", raw)
	}
	return level, nil
}

func (s *noticeServiceImpl) ListNotices(ctx context.Context, filter dto.NoticeFilter, p pagination.Params) (*pagination.Page[*domain.Notice], error) {
	notices, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, response.StoreError(s.logger, "list notices", "Notice", err)
	}
	return pagination.NewPage(notices, total, p), nil
}

func (s *noticeServiceImpl) GetNotice(ctx context.Context, id uint) (*domain.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get notice", "Notice", err)
	}
	return notice, nil
}

func (s *noticeServiceImpl) CreateNotice(ctx context.Context, req *dto.CreateNoticeRequest, writer string) (*domain.Notice, error) {
	level := domain.NoticeLevelAll
	if req.Level != "" {
		var err error
		if level, err = parseLevel(req.Level); err != nil {
			return nil, err
		}
	}

	notice := &domain.Notice{
		Title:     req.Title,
		Content:   req.Content,
		Level:     level,
		CompanyID: req.CompanyID,
		Writer:    writer,
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, response.StoreError(s.logger, "create notice", "Notice", err)
	}

	s.metrics.IncrementEntityCreated("notice")
	s.logger.Info("Notice created",
		zap.Uint("notice_id", notice.ID),
		zap.String("level", string(level)),
		zap.String("writer", writer),
	)
	return notice, nil
}

func (s *noticeServiceImpl) UpdateNotice(ctx context.Context, id uint, req *dto.UpdateNoticeRequest) (*domain.Notice, error) {
	notice, err := s.GetNotice(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Content != nil {
		notice.Content = *req.Content
	}
	if req.Level != nil {
		if notice.Level, err = parseLevel(*req.Level); err != nil {
			return nil, err
		}
	}
	if req.CompanyID != nil {
		notice.CompanyID = req.CompanyID
	}

	if err := s.repo.Update(ctx, notice); err != nil {
		return nil, response.StoreError(s.logger, "update notice", "Notice", err)
	}
	return notice, nil
}

func (s *noticeServiceImpl) DeleteNotice(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return response.StoreError(s.logger, "delete notice", "Notice", err)
	}
	return nil
}
