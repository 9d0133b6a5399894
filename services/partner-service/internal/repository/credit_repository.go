package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
)

// CreditTotals are the ledger sums of one partner
type CreditTotals struct {
	Deposit decimal.Decimal
	Credit  decimal.Decimal
}

// CreditRepository defines the interface for credit ledger access
type CreditRepository interface {
	Create(ctx context.Context, credit *domain.Credit) error
	FindByID(ctx context.Context, id uint) (*domain.Credit, error)
	List(ctx context.Context, filter dto.CreditFilter, p pagination.Params) ([]*domain.Credit, int64, error)
	Update(ctx context.Context, credit *domain.Credit) error
	Delete(ctx context.Context, id uint) error
	Totals(ctx context.Context, partnerID uint) (*CreditTotals, error)
	PartnerNames(ctx context.Context, ids []uint) (map[uint]string, error)
}

type creditRepositoryImpl struct {
	*database.Store[domain.Credit]
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepositoryImpl{Store: database.NewStore[domain.Credit](db)}
}

func (r *creditRepositoryImpl) List(ctx context.Context, filter dto.CreditFilter, p pagination.Params) ([]*domain.Credit, int64, error) {
	return r.Store.List(ctx, p,
		database.Eq("partner_id", filter.PartnerID),
		database.Eq("business_id", filter.BusinessID),
		creditTypeScope(domain.CreditType(filter.Type)),
		partnerNameScope(filter.PartnerName),
		businessIDsScope(filter.BusinessIDs),
	)
}

func partnerNameScope(name string) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if name == "" {
			return db
		}
		partners := db.Session(&gorm.Session{NewDB: true}).
			Model(&domain.Partner{}).
			Select("id").
			Where("name LIKE ?", "%"+name+"%")
		return db.Where("partner_id IN (?)", partners)
	}
}

func businessIDsScope(ids []uint) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if ids == nil {
			return db
		}
		if len(ids) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("business_id IN ?", ids)
	}
}

func creditTypeScope(t domain.CreditType) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		switch t {
		case domain.CreditTypeDeposit:
			return db.Where("deposit > 0")
		case domain.CreditTypeCredit:
			return db.Where("credit > 0")
		}
		return db
	}
}

// Totals sums the partner's non-removed entries
func (r *creditRepositoryImpl) Totals(ctx context.Context, partnerID uint) (*CreditTotals, error) {
	var row struct {
		Deposit decimal.NullDecimal
		Credit  decimal.NullDecimal
	}
	if err := r.Conn(ctx).
		Model(&domain.Credit{}).
		Select("SUM(deposit) AS deposit, SUM(credit) AS credit").
		Where("partner_id = ?", partnerID).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &CreditTotals{
		Deposit: row.Deposit.Decimal,
		Credit:  row.Credit.Decimal,
	}, nil
}

// PartnerNames maps partner ids to names, removed partners included
func (r *creditRepositoryImpl) PartnerNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var partners []domain.Partner
	if err := r.Conn(ctx).Unscoped().
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&partners).Error; err != nil {
		return nil, err
	}
	for _, p := range partners {
		names[p.ID] = p.Name
	}
	return names, nil
}
