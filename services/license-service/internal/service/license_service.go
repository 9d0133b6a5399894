package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/pkg/validation"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/repository"
)

const entityLicense = "license"

// LicenseService defines the interface for license business logic
type LicenseService interface {
	ListLicenses(ctx context.Context, filter dto.LicenseFilter, p pagination.Params, token string) (*pagination.Page[*dto.LicenseResponse], error)
	GetLicense(ctx context.Context, id uint, token string) (*dto.LicenseResponse, error)
	CreateLicense(ctx context.Context, req *dto.CreateLicenseRequest, issuer dto.Issuer, token string) (*dto.LicenseResponse, error)
	UpdateLicense(ctx context.Context, id uint, req *dto.UpdateLicenseRequest, token string) (*dto.LicenseResponse, error)
	DeleteLicense(ctx context.Context, id uint) error
	ApproveLicense(ctx context.Context, id uint, approveUser, token string) (*dto.LicenseResponse, error)
	ExpireLicenses(ctx context.Context, today time.Time) (int64, error)
}

type licenseServiceImpl struct {
	repo    repository.LicenseRepository
	catalog client.CatalogClient
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLicenseService creates a new instance of LicenseService. catalog may be nil, which disables enrichment.
func NewLicenseService(repo repository.LicenseRepository, catalog client.CatalogClient, logger *zap.Logger, m *metrics.Metrics) LicenseService {
	return &licenseServiceImpl{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *licenseServiceImpl) ListLicenses(ctx context.Context, filter dto.LicenseFilter, p pagination.Params, token string) (*pagination.Page[*dto.LicenseResponse], error) {
	if filter.ProductType != "" && !domain.ProductType(filter.ProductType).IsValid() {
		return nil, response.NewValidationError("productType must be one of: vm, bare-metal, container", filter.ProductType)
	}
	if filter.Status != "" && !domain.LicenseStatus(filter.Status).IsValid() {
		return nil, response.NewValidationError("status must be one of: inactive, active, expired", filter.Status)
	}

	licenses, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		s.logger.Error("Failed to list licenses", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list licenses", err.Error())
	}

	e := s.newEnricher(token)
	page := pagination.NewPage(licenses, total, p)
	return pagination.Map(page, func(l *domain.License) *dto.LicenseResponse {
		return e.enrich(ctx, l)
	}), nil
}

func (s *licenseServiceImpl) GetLicense(ctx context.Context, id uint, token string) (*dto.LicenseResponse, error) {
	license, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.newEnricher(token).enrich(ctx, license), nil
}

func (s *licenseServiceImpl) CreateLicense(ctx context.Context, req *dto.CreateLicenseRequest, issuer dto.Issuer, token string) (*dto.LicenseResponse, error) {
	issued, err := validation.ParseDate("issued", req.Issued)
	if err != nil {
		return nil, err
	}
	expired, err := validation.ParseDate("expired", req.Expired)
	if err != nil {
		return nil, err
	}
	if err := validation.CheckRange(issued, expired); err != nil {
		return nil, err
	}

	productType := domain.ProductTypeVM
	if req.ProductType != "" {
		productType = domain.ProductType(req.ProductType)
		if !productType.IsValid() {
			return nil, response.NewValidationError("product_type must be one of: vm, bare-metal, container", req.ProductType)
		}
	}

	key := strings.TrimSpace(req.LicenseKey)
	if key == "" {
		key = strings.ToUpper(uuid.New().String())
	} else {
		_, err := s.repo.FindByKey(ctx, key)
		if err == nil {
			return nil, response.NewAlreadyExistsError("License key already exists", key)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create license", err.Error())
		}
	}

	license := &domain.License{
		LicenseKey:  key,
		ProductID:   req.ProductID,
		ProductType: productType,
		BusinessID:  req.BusinessID,
		CompanyID:   req.CompanyID,
		Issued:      datatypes.Date(issued),
		Expired:     datatypes.Date(expired),
		Status:      domain.LicenseStatusInactive,
		Trial:       req.Trial,
		IssuedID:    issuer.ID,
		IssuedName:  issuer.Name,
	}

	if err := s.repo.Create(ctx, license); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAlreadyExistsError("License key already exists", key)
		}
		s.logger.Error("Failed to create license", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create license", err.Error())
	}

	s.metrics.IncrementEntityCreated(entityLicense)
	s.logger.Info("License created",
		zap.Uint("license_id", license.ID),
		zap.String("license_key", license.LicenseKey),
		zap.String("issued_by", issuer.Name),
	)

	resp := s.newEnricher(token).enrich(ctx, license)
	s.markBusinessLicensed(ctx, license, resp.ProductVersion, token)
	return resp, nil
}

// markBusinessLicensed is best effort; the license stands even when the business cannot be updated
func (s *licenseServiceImpl) markBusinessLicensed(ctx context.Context, l *domain.License, productVersion, token string) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.MarkBusinessLicensed(ctx, l.BusinessID, l.LicenseKey, productVersion, token); err != nil {
		s.logger.Warn("Failed to mark business licensed",
			zap.Uint("license_id", l.ID),
			zap.Uint("business_id", l.BusinessID),
			zap.Error(err),
		)
	}
}

func (s *licenseServiceImpl) UpdateLicense(ctx context.Context, id uint, req *dto.UpdateLicenseRequest, token string) (*dto.LicenseResponse, error) {
	license, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProductID != nil {
		license.ProductID = *req.ProductID
	}
	if req.BusinessID != nil {
		license.BusinessID = *req.BusinessID
	}
	if req.CompanyID != nil {
		license.CompanyID = req.CompanyID
	}
	if req.Trial != nil {
		license.Trial = *req.Trial
	}
	if req.ProductType != nil {
		pt := domain.ProductType(*req.ProductType)
		if !pt.IsValid() {
			return nil, response.NewValidationError("product_type must be one of: vm, bare-metal, container", *req.ProductType)
		}
		license.ProductType = pt
	}
	if req.Status != nil {
		st := domain.LicenseStatus(*req.Status)
		if !st.IsValid() {
			return nil, response.NewValidationError("status must be one of: inactive, active, expired", *req.Status)
		}
		license.Status = st
	}
	if req.Issued != nil {
		issued, err := validation.ParseDate("issued", *req.Issued)
		if err != nil {
			return nil, err
		}
		license.Issued = datatypes.Date(issued)
	}
	if req.Expired != nil {
		expired, err := validation.ParseDate("expired", *req.Expired)
		if err != nil {
			return nil, err
		}
		license.Expired = datatypes.Date(expired)
	}
	if err := validation.CheckRange(time.Time(license.Issued), time.Time(license.Expired)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, license); err != nil {
		s.logger.Error("Failed to update license", zap.Uint("license_id", id), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update license", err.Error())
	}
	return s.newEnricher(token).enrich(ctx, license), nil
}

func (s *licenseServiceImpl) DeleteLicense(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("License not found", "")
		}
		s.logger.Error("Failed to delete license", zap.Uint("license_id", id), zap.Error(err))
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete license", err.Error())
	}
	s.logger.Info("License deleted", zap.Uint("license_id", id))
	return nil
}

// ApproveLicense activates a license. An already active license is returned unchanged.
func (s *licenseServiceImpl) ApproveLicense(ctx context.Context, id uint, approveUser, token string) (*dto.LicenseResponse, error) {
	approveUser = strings.TrimSpace(approveUser)
	if approveUser == "" {
		return nil, response.NewValidationError("approve_user is required", "")
	}

	license, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if license.Status == domain.LicenseStatusActive && license.Approved != nil {
		return s.newEnricher(token).enrich(ctx, license), nil
	}

	now := s.now().UTC()
	license.Status = domain.LicenseStatusActive
	license.ApproveUser = approveUser
	license.Approved = &now

	if err := s.repo.Update(ctx, license); err != nil {
		s.logger.Error("Failed to approve license", zap.Uint("license_id", id), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to approve license", err.Error())
	}

	s.metrics.RecordBusinessEvent("license_approved", 1)
	s.logger.Info("License approved",
		zap.Uint("license_id", id),
		zap.String("approve_user", approveUser),
	)
	return s.newEnricher(token).enrich(ctx, license), nil
}

// ExpireLicenses marks active licenses whose expired date is before today
func (s *licenseServiceImpl) ExpireLicenses(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.repo.ExpireBefore(ctx, validation.Truncate(today))
	if err != nil {
		return 0, response.NewAppError(response.ErrCodeInternal, "Failed to expire licenses", err.Error())
	}
	if n > 0 {
		s.metrics.RecordBusinessEvent("license_expired", int(n))
	}
	return n, nil
}

func (s *licenseServiceImpl) find(ctx context.Context, id uint) (*domain.License, error) {
	license, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("License not found", "")
		}
		s.logger.Error("Failed to get license", zap.Uint("license_id", id), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get license", err.Error())
	}
	return license, nil
}
