package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Environment(t *testing.T) {
	t.Setenv("KEYCLOAK_API_URL", "http://keycloak:8080")
	t.Setenv("KEYCLOAK_REALM", "crm")
	t.Setenv("CLIENT_ID", "gateway")
	t.Setenv("LICENSE_API_URL", "http://license:8081/")
	t.Setenv("VENDOR_NAME", "ACME")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://license:8081", cfg.Services.License.BaseURL)
	assert.Equal(t, "http://localhost:8082", cfg.Services.Partner.BaseURL)
	assert.Equal(t, "ACME", cfg.VendorName)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 8, cfg.Users.LookupConcurrency)
}

func TestLoad_RequiresKeycloak(t *testing.T) {
	t.Setenv("KEYCLOAK_API_URL", "")
	t.Setenv("KEYCLOAK_REALM", "")
	t.Setenv("CLIENT_ID", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
