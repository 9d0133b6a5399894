package service

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/repository"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/storage"
)

// DownloadTTL is how long an ISO download link stays valid
const DownloadTTL = 15 * time.Minute

// ProductService defines the interface for product business logic
type ProductService interface {
	ListProducts(ctx context.Context, filter dto.ProductFilter, p pagination.Params) (*pagination.Page[*domain.Product], error)
	GetProduct(ctx context.Context, id uint) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	DownloadURL(ctx context.Context, id uint) (*dto.DownloadResponse, error)
}

type productServiceImpl struct {
	repo    repository.ProductRepository
	store   storage.ObjectStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewProductService creates a product service. store may be nil when no object storage is configured.
func NewProductService(repo repository.ProductRepository, store storage.ObjectStore, logger *zap.Logger, m *metrics.Metrics) ProductService {
	return &productServiceImpl{repo: repo, store: store, logger: logger, metrics: m, now: time.Now}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter dto.ProductFilter, p pagination.Params) (*pagination.Page[*domain.Product], error) {
	products, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, response.StoreError(s.logger, "list products", "Product", err)
	}
	return pagination.NewPage(products, total, p), nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get product", "Product", err)
	}
	return product, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*domain.Product, error) {
	product := &domain.Product{
		Name:        req.Name,
		Version:     req.Version,
		ISOFilePath: req.ISOFilePath,
		Checksum:    req.Checksum,
		Enabled:     true,
		Contents:    req.Contents,
	}
	if req.Enabled != nil {
		product.Enabled = *req.Enabled
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, response.StoreError(s.logger, "create product", "Product", err)
	}

	s.metrics.IncrementEntityCreated("product")
	s.logger.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("version", product.Version),
	)
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uint, req *dto.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Version != nil {
		product.Version = *req.Version
	}
	if req.ISOFilePath != nil {
		product.ISOFilePath = *req.ISOFilePath
	}
	if req.Checksum != nil {
		product.Checksum = *req.Checksum
	}
	if req.Enabled != nil {
		product.Enabled = *req.Enabled
	}
	if req.Contents != nil {
		product.Contents = req.Contents
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, response.StoreError(s.logger, "update product", "Product", err)
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return response.StoreError(s.logger, "delete product", "Product", err)
	}
	s.logger.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

// DownloadURL presigns the ISO image of a product for DownloadTTL
func (s *productServiceImpl) DownloadURL(ctx context.Context, id uint) (*dto.DownloadResponse, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.HasISO() {
		return nil, response.NewValidationError("Product has no ISO file", "")
	}
	if s.store == nil {
		return nil, response.NewAppError(response.ErrCodeServiceUnavailable, "Object storage is not configured", "")
	}

	expiresAt := s.now().Add(DownloadTTL)
	url, err := s.store.PresignGet(ctx, product.ISOFilePath, DownloadTTL)
	if err != nil {
		s.logger.Error("Failed to presign ISO download", zap.Uint("product_id", id), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeUpstream, "Failed to create download link", err.Error())
	}

	s.metrics.RecordBusinessEvent("iso_download_link", 1)
	return &dto.DownloadResponse{
		ProductID: product.ID,
		FileName:  path.Base(storage.ObjectKey(product.ISOFilePath)),
		Checksum:  product.Checksum,
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}
