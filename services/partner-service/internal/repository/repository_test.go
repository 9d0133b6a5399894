package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/testutil"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
)

func uintPtr(v uint) *uint { return &v }

func TestPartnerRepository_List(t *testing.T) {
	repo := NewPartnerRepository(testutil.NewSQLite(t, &domain.Partner{}))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Partner{Name: "Able Systems", Level: domain.PartnerLevelPlatinum}))
	require.NoError(t, repo.Create(ctx, &domain.Partner{Name: "Cloud Able", Level: domain.PartnerLevelGold}))
	require.NoError(t, repo.Create(ctx, &domain.Partner{Name: "Other Co"}))

	items, total, err := repo.List(ctx, dto.PartnerFilter{Name: "Able"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Cloud Able", items[0].Name)

	items, total, err = repo.List(ctx, dto.PartnerFilter{Level: "GOLD"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "level defaults to GOLD")
	assert.Equal(t, "Other Co", items[0].Name)
}

func TestCustomerRepository_List(t *testing.T) {
	repo := NewCustomerRepository(testutil.NewSQLite(t, &domain.Customer{}))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Customer{Name: "Hospital", ManagerID: "u1", ManagerCompanyID: "3"}))
	require.NoError(t, repo.Create(ctx, &domain.Customer{Name: "University", ManagerID: "u2", ManagerCompanyID: "3"}))
	require.NoError(t, repo.Create(ctx, &domain.Customer{Name: "Bank"}))

	_, total, err := repo.List(ctx, dto.CustomerFilter{ManagerCompanyID: "3"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	items, total, err := repo.List(ctx, dto.CustomerFilter{ManagerCompanyID: "3", ManagerID: "u2"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "University", items[0].Name)
}

func TestCreditRepository_FiltersAndTotals(t *testing.T) {
	repo := NewCreditRepository(testutil.NewSQLite(t, &domain.Credit{}))
	ctx := context.Background()

	entries := []*domain.Credit{
		{PartnerID: 1, Deposit: decimal.RequireFromString("1000.25")},
		{PartnerID: 1, BusinessID: uintPtr(5), Credit: decimal.RequireFromString("300.50")},
		{PartnerID: 1, BusinessID: uintPtr(6), Credit: decimal.RequireFromString("100.25")},
		{PartnerID: 2, Deposit: decimal.RequireFromString("50")},
	}
	for _, c := range entries {
		require.NoError(t, repo.Create(ctx, c))
	}

	_, total, err := repo.List(ctx, dto.CreditFilter{PartnerID: uintPtr(1), Type: "credit"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, dto.CreditFilter{Type: "deposit"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, dto.CreditFilter{BusinessID: uintPtr(5)}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// removed entries do not count
	require.NoError(t, repo.Delete(ctx, entries[2].ID))

	totals, err := repo.Totals(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1000.25").Equal(totals.Deposit), totals.Deposit.String())
	assert.True(t, decimal.RequireFromString("300.5").Equal(totals.Credit), totals.Credit.String())

	totals, err = repo.Totals(ctx, 99)
	require.NoError(t, err)
	assert.True(t, totals.Deposit.IsZero())
	assert.True(t, totals.Credit.IsZero())
}

func TestCreditRepository_NameFilters(t *testing.T) {
	db := testutil.NewSQLite(t, &domain.Partner{}, &domain.Credit{})
	partners := NewPartnerRepository(db)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	able := &domain.Partner{Name: "Able Systems"}
	other := &domain.Partner{Name: "Other Co"}
	gone := &domain.Partner{Name: "Able Legacy"}
	for _, p := range []*domain.Partner{able, other, gone} {
		require.NoError(t, partners.Create(ctx, p))
	}
	require.NoError(t, partners.Delete(ctx, gone.ID))

	entries := []*domain.Credit{
		{PartnerID: able.ID, BusinessID: uintPtr(5), Credit: decimal.RequireFromString("10")},
		{PartnerID: able.ID, BusinessID: uintPtr(6), Credit: decimal.RequireFromString("20")},
		{PartnerID: other.ID, BusinessID: uintPtr(5), Deposit: decimal.RequireFromString("30")},
		{PartnerID: gone.ID, Deposit: decimal.RequireFromString("40")},
	}
	for _, c := range entries {
		require.NoError(t, repo.Create(ctx, c))
	}

	items, total, err := repo.List(ctx, dto.CreditFilter{PartnerName: "Able"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "removed partners do not match by name")
	for _, c := range items {
		assert.Equal(t, able.ID, c.PartnerID)
	}

	_, total, err = repo.List(ctx, dto.CreditFilter{BusinessIDs: []uint{5}}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, dto.CreditFilter{PartnerName: "Other", BusinessIDs: []uint{5, 6}}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, dto.CreditFilter{BusinessIDs: []uint{}}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	names, err := repo.PartnerNames(ctx, []uint{able.ID, gone.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{able.ID: "Able Systems", gone.ID: "Able Legacy"}, names)
}
