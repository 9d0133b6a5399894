package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/repository"
)

// CreditService defines the interface for the partner credit ledger
type CreditService interface {
	ListCredits(ctx context.Context, filter dto.CreditFilter, p pagination.Params, token string) (*pagination.Page[*dto.CreditResponse], error)
	GetCredit(ctx context.Context, id uint, token string) (*dto.CreditResponse, error)
	CreateCredit(ctx context.Context, req *dto.CreateCreditRequest) (*dto.CreditResponse, error)
	UpdateCredit(ctx context.Context, id uint, req *dto.UpdateCreditRequest) (*dto.CreditResponse, error)
	DeleteCredit(ctx context.Context, id uint) error
	GetBalance(ctx context.Context, partnerID uint) (*dto.BalanceResponse, error)
}

type creditServiceImpl struct {
	repo       repository.CreditRepository
	businesses client.BusinessClient
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewCreditService creates a new instance of CreditService.
// businesses may be nil, which leaves business names empty and rejects business name searches.
func NewCreditService(repo repository.CreditRepository, businesses client.BusinessClient, logger *zap.Logger, m *metrics.Metrics) CreditService {
	return &creditServiceImpl{repo: repo, businesses: businesses, logger: logger, metrics: m}
}

// checkAmounts requires non-negative amounts with exactly one of them positive
func checkAmounts(deposit, credit decimal.Decimal) error {
	if deposit.IsNegative() || credit.IsNegative() {
		return response.NewValidationError("deposit and credit must not be negative", "")
	}
	if deposit.IsPositive() == credit.IsPositive() {
		return response.NewValidationError("exactly one of deposit or credit must be greater than zero",
			"deposit="+deposit.StringFixed(2)+" credit="+credit.StringFixed(2))
	}
	if !deposit.Equal(deposit.Round(2)) || !credit.Equal(credit.Round(2)) {
		return response.NewValidationError("amounts allow at most two decimal places", "")
	}
	return nil
}

func (s *creditServiceImpl) ListCredits(ctx context.Context, filter dto.CreditFilter, p pagination.Params, token string) (*pagination.Page[*dto.CreditResponse], error) {
	switch domain.CreditType(filter.Type) {
	case "", domain.CreditTypeDeposit, domain.CreditTypeCredit:
	default:
		return nil, response.NewValidationError("type must be one of: deposit, credit", filter.Type)
	}

	filter.BusinessIDs = nil
	if filter.BusinessName != "" {
		if s.businesses == nil {
			return nil, response.NewAppError(response.ErrCodeServiceUnavailable, "Business lookup is not configured", "")
		}
		ids, err := s.businesses.FindBusinessIDs(ctx, filter.BusinessName, token)
		if err != nil {
			s.logger.Error("Failed to search businesses", zap.String("business", filter.BusinessName), zap.Error(err))
			return nil, response.NewAppError(response.ErrCodeUpstream, "Failed to search businesses", err.Error())
		}
		if len(ids) == 0 {
			return pagination.NewPage[*dto.CreditResponse](nil, 0, p), nil
		}
		filter.BusinessIDs = ids
	}

	credits, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, response.StoreError(s.logger, "list credits", "Credit", err)
	}

	names := s.newCreditNames(ctx, credits, token)
	return pagination.Map(pagination.NewPage(credits, total, p), func(c *domain.Credit) *dto.CreditResponse {
		return names.apply(ctx, c)
	}), nil
}

func (s *creditServiceImpl) GetCredit(ctx context.Context, id uint, token string) (*dto.CreditResponse, error) {
	credit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get credit", "Credit", err)
	}
	return s.newCreditNames(ctx, []*domain.Credit{credit}, token).apply(ctx, credit), nil
}

func (s *creditServiceImpl) CreateCredit(ctx context.Context, req *dto.CreateCreditRequest) (*dto.CreditResponse, error) {
	if err := checkAmounts(req.Deposit, req.Credit); err != nil {
		return nil, err
	}

	credit := &domain.Credit{
		PartnerID:  req.PartnerID,
		BusinessID: req.BusinessID,
		Deposit:    req.Deposit,
		Credit:     req.Credit,
		Note:       req.Note,
	}
	if err := s.repo.Create(ctx, credit); err != nil {
		return nil, response.StoreError(s.logger, "create credit", "Credit", err)
	}

	s.metrics.IncrementEntityCreated("credit")
	s.logger.Info("Credit recorded",
		zap.Uint("credit_id", credit.ID),
		zap.Uint("partner_id", credit.PartnerID),
		zap.String("deposit", credit.Deposit.StringFixed(2)),
		zap.String("credit", credit.Credit.StringFixed(2)),
	)
	return toCreditResponse(credit), nil
}

func (s *creditServiceImpl) UpdateCredit(ctx context.Context, id uint, req *dto.UpdateCreditRequest) (*dto.CreditResponse, error) {
	credit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, response.StoreError(s.logger, "get credit", "Credit", err)
	}

	if req.PartnerID != nil {
		credit.PartnerID = *req.PartnerID
	}
	if req.BusinessID != nil {
		credit.BusinessID = req.BusinessID
	}
	if req.Deposit != nil {
		credit.Deposit = *req.Deposit
	}
	if req.Credit != nil {
		credit.Credit = *req.Credit
	}
	if req.Note != nil {
		credit.Note = *req.Note
	}
	if err := checkAmounts(credit.Deposit, credit.Credit); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, credit); err != nil {
		return nil, response.StoreError(s.logger, "update credit", "Credit", err)
	}
	return toCreditResponse(credit), nil
}

func (s *creditServiceImpl) DeleteCredit(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return response.StoreError(s.logger, "delete credit", "Credit", err)
	}
	return nil
}

// GetBalance sums the ledger of a partner; a partner without entries has a zero balance
func (s *creditServiceImpl) GetBalance(ctx context.Context, partnerID uint) (*dto.BalanceResponse, error) {
	totals, err := s.repo.Totals(ctx, partnerID)
	if err != nil {
		return nil, response.StoreError(s.logger, "sum credits", "Credit", err)
	}
	return &dto.BalanceResponse{
		PartnerID: partnerID,
		Deposit:   totals.Deposit.StringFixed(2),
		Credit:    totals.Credit.StringFixed(2),
		Balance:   totals.Deposit.Sub(totals.Credit).StringFixed(2),
	}, nil
}

func toCreditResponse(c *domain.Credit) *dto.CreditResponse {
	return &dto.CreditResponse{
		ID:         c.ID,
		PartnerID:  c.PartnerID,
		BusinessID: c.BusinessID,
		Deposit:    c.Deposit.StringFixed(2),
		Credit:     c.Credit.StringFixed(2),
		Note:       c.Note,
		Created:    c.Created,
		Updated:    c.Updated,
	}
}
