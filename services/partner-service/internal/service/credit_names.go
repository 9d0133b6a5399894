package service

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
)

// creditNames fills partner and business names for one request.
// Business lookups are memoized, failed ones included.
type creditNames struct {
	businesses client.BusinessClient
	token      string
	logger     *zap.Logger
	partners   map[uint]string
	names      map[uint]string
}

func (s *creditServiceImpl) newCreditNames(ctx context.Context, credits []*domain.Credit, token string) *creditNames {
	ids := lo.Uniq(lo.Map(credits, func(c *domain.Credit, _ int) uint { return c.PartnerID }))
	partners, err := s.repo.PartnerNames(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve partner names for credits", zap.Error(err))
		partners = map[uint]string{}
	}
	return &creditNames{
		businesses: s.businesses,
		token:      token,
		logger:     s.logger,
		partners:   partners,
		names:      map[uint]string{},
	}
}

func (n *creditNames) businessName(ctx context.Context, id uint) string {
	if name, ok := n.names[id]; ok {
		return name
	}
	var name string
	b, err := n.businesses.GetBusiness(ctx, id, n.token)
	if err != nil {
		n.logger.Warn("Failed to resolve business for credit", zap.Uint("business_id", id), zap.Error(err))
	} else {
		name = b.Name
	}
	n.names[id] = name
	return name
}

func (n *creditNames) apply(ctx context.Context, c *domain.Credit) *dto.CreditResponse {
	resp := toCreditResponse(c)
	resp.Partner = n.partners[c.PartnerID]
	if c.BusinessID != nil && n.businesses != nil {
		resp.Business = n.businessName(ctx, *c.BusinessID)
	}
	return resp
}
