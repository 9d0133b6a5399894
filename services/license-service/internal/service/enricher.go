package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/validation"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/dto"
)

// enricher resolves product and business names for one request.
// Lookups are memoized, failed ones included, so a page hits each id at most once.
type enricher struct {
	catalog    client.CatalogClient
	token      string
	logger     *zap.Logger
	products   map[uint]*client.Product
	businesses map[uint]*client.Business
}

func (s *licenseServiceImpl) newEnricher(token string) *enricher {
	return &enricher{
		catalog:    s.catalog,
		token:      token,
		logger:     s.logger,
		products:   map[uint]*client.Product{},
		businesses: map[uint]*client.Business{},
	}
}

func (e *enricher) product(ctx context.Context, id uint) *client.Product {
	if p, ok := e.products[id]; ok {
		return p
	}
	p, err := e.catalog.GetProduct(ctx, id, e.token)
	if err != nil {
		e.logger.Warn("Failed to resolve product for license", zap.Uint("product_id", id), zap.Error(err))
		p = nil
	}
	e.products[id] = p
	return p
}

func (e *enricher) business(ctx context.Context, id uint) *client.Business {
	if b, ok := e.businesses[id]; ok {
		return b
	}
	b, err := e.catalog.GetBusiness(ctx, id, e.token)
	if err != nil {
		e.logger.Warn("Failed to resolve business for license", zap.Uint("business_id", id), zap.Error(err))
		b = nil
	}
	e.businesses[id] = b
	return b
}

func (e *enricher) enrich(ctx context.Context, l *domain.License) *dto.LicenseResponse {
	resp := toLicenseResponse(l)
	if e.catalog == nil {
		return resp
	}
	if p := e.product(ctx, l.ProductID); p != nil {
		resp.ProductName = p.Name
		resp.ProductVersion = p.Version
	}
	if b := e.business(ctx, l.BusinessID); b != nil {
		resp.BusinessName = b.Name
	}
	return resp
}

func toLicenseResponse(l *domain.License) *dto.LicenseResponse {
	return &dto.LicenseResponse{
		ID:          l.ID,
		LicenseKey:  l.LicenseKey,
		ProductID:   l.ProductID,
		ProductType: string(l.ProductType),
		BusinessID:  l.BusinessID,
		CompanyID:   l.CompanyID,
		Issued:      validation.FormatDate(time.Time(l.Issued)),
		Expired:     validation.FormatDate(time.Time(l.Expired)),
		Status:      string(l.Status),
		Trial:       l.Trial,
		IssuedID:    l.IssuedID,
		IssuedName:  l.IssuedName,
		ApproveUser: l.ApproveUser,
		Approved:    l.Approved,
		Created:     l.Created,
		Updated:     l.Updated,
	}
}
