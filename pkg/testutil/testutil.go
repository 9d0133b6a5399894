// Package testutil holds fixtures shared by service tests: an in-memory database and signed tokens.
package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
)

// Secret signs every test token
const Secret = "test-secret"

// NewSQLite opens a private in-memory database and migrates models into it
func NewSQLite(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every connection to :memory: is a new database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// KeyFunc verifies tokens produced by Token
func KeyFunc(t *testing.T) jwt.Keyfunc {
	t.Helper()
	kf, err := middleware.NewKeyFunc(config.JWTConfig{Secret: Secret})
	require.NoError(t, err)
	return kf
}

// Identity describes the caller a test token represents
type Identity struct {
	Subject   string
	Username  string
	Type      string
	CompanyID string
	Roles     []string
}

// Token signs an HS256 access token for id, valid for an hour
func Token(t *testing.T, id Identity) string {
	t.Helper()
	if id.Subject == "" {
		id.Subject = "00000000-0000-4000-8000-000000000001"
	}
	roles := make([]interface{}, len(id.Roles))
	for i, r := range id.Roles {
		roles[i] = r
	}
	claims := jwt.MapClaims{
		"sub":                id.Subject,
		"preferred_username": id.Username,
		"realm_access":       map[string]interface{}{"roles": roles},
		"exp":                time.Now().Add(time.Hour).Unix(),
	}
	if id.Type != "" {
		claims["type"] = id.Type
	}
	if id.CompanyID != "" {
		claims["company_id"] = id.CompanyID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	require.NoError(t, err)
	return token
}

// AdminToken is a token holding the Admin role
func AdminToken(t *testing.T) string {
	return Token(t, Identity{Username: "admin", Roles: []string{middleware.RoleAdmin}})
}

// UserToken is a token holding only the User role
func UserToken(t *testing.T) string {
	return Token(t, Identity{Username: "partner-user", Roles: []string{middleware.RoleUser}})
}
