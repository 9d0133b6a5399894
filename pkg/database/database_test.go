package database

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testRow struct {
	BaseModel
	Name string
}

func (testRow) TableName() string { return "test_row" }

type recordedQuery struct {
	operation string
	table     string
	err       error
}

type mockRecorder struct {
	mu      sync.Mutex
	queries []recordedQuery
	stats   []sql.DBStats
}

func (m *mockRecorder) RecordDBQuery(operation, table string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, recordedQuery{operation, table, err})
}

func (m *mockRecorder) UpdateDBStats(stats sql.DBStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = append(m.stats, stats)
}

func (m *mockRecorder) operations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := make([]string, 0, len(m.queries))
	for _, q := range m.queries {
		ops = append(ops, q.operation+":"+q.table)
	}
	return ops
}

func (m *mockRecorder) statsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stats)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), Config{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestSafeAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SafeAutoMigrate(db, zap.NewNop(), &testRow{}))
	assert.True(t, db.Migrator().HasTable("test_row"))
	assert.True(t, db.Migrator().HasColumn(&testRow{}, "removed"))
	assert.True(t, db.Migrator().HasColumn(&testRow{}, "created"))

	// second run only updates
	require.NoError(t, SafeAutoMigrate(db, zap.NewNop(), &testRow{}))
}

func TestBaseModel_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&testRow{}))

	row := &testRow{Name: "a"}
	require.NoError(t, db.Create(row).Error)
	assert.NotZero(t, row.ID)
	assert.False(t, row.Created.IsZero())

	require.NoError(t, db.Delete(&testRow{}, row.ID).Error)

	var visible int64
	db.Model(&testRow{}).Count(&visible)
	assert.Equal(t, int64(0), visible)

	var all int64
	db.Unscoped().Model(&testRow{}).Where("removed IS NOT NULL").Count(&all)
	assert.Equal(t, int64(1), all)
}

func TestRegisterMetricsCallbacks(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&testRow{}))

	recorder := &mockRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	row := &testRow{Name: "a"}
	require.NoError(t, db.Create(row).Error)
	require.NoError(t, db.First(&testRow{}, row.ID).Error)
	require.NoError(t, db.Model(row).Update("name", "b").Error)
	require.NoError(t, db.Delete(row).Error)

	ops := recorder.operations()
	assert.Contains(t, ops, "insert:test_row")
	assert.Contains(t, ops, "select:test_row")
	assert.Contains(t, ops, "update:test_row")
	// soft delete runs through the delete callback chain
	assert.Contains(t, ops, "delete:test_row")
}

func TestRegisterMetricsCallbacks_RecordsErrors(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	err := db.Table("missing_table").Find(&[]testRow{}).Error
	require.Error(t, err)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.NotEmpty(t, recorder.queries)
	assert.Error(t, recorder.queries[len(recorder.queries)-1].err)
}

func TestStartDBStatsCollector(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockRecorder{}

	done := StartDBStatsCollector(func() *gorm.DB { return db }, recorder, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return recorder.statsCount() > 0 }, time.Second, 10*time.Millisecond)
	close(done)
}

func TestGlobalDB(t *testing.T) {
	SetDB(nil)
	assert.False(t, IsConnected())

	db := setupTestDB(t)
	SetDB(db)
	t.Cleanup(func() { SetDB(nil) })
	assert.Same(t, db, GetDB())
	assert.True(t, IsConnected())
}
