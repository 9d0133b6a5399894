package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
)

type storeWidget struct {
	BaseModel
	Name    string
	Enabled bool
}

func newStoreDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&storeWidget{}))
	return db
}

func TestStore_CRUD(t *testing.T) {
	store := NewStore[storeWidget](newStoreDB(t))
	ctx := context.Background()

	w := &storeWidget{Name: "alpha"}
	require.NoError(t, store.Create(ctx, w))
	require.NotZero(t, w.ID)
	assert.False(t, w.Created.IsZero())

	got, err := store.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)

	got.Name = "beta"
	require.NoError(t, store.Update(ctx, got))
	got, err = store.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "beta", got.Name)

	require.NoError(t, store.Delete(ctx, w.ID))
	_, err = store.FindByID(ctx, w.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, w.ID), gorm.ErrRecordNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, 12345), gorm.ErrRecordNotFound))
}

func TestStore_ListScopes(t *testing.T) {
	store := NewStore[storeWidget](newStoreDB(t))
	ctx := context.Background()

	for _, w := range []*storeWidget{
		{Name: "ablestack-vm", Enabled: true},
		{Name: "ablestack-hci", Enabled: false},
		{Name: "mold", Enabled: true},
	} {
		require.NoError(t, store.Create(ctx, w))
	}

	enabled := true
	items, total, err := store.List(ctx, pagination.Default(), Like("name", "ablestack"), Eq("enabled", &enabled))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "ablestack-vm", items[0].Name)

	items, total, err = store.List(ctx, pagination.Params{Page: 1, Limit: 2}, Like("name", ""), Eq[bool]("enabled", nil), EqString("name", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "mold", items[0].Name)
}
