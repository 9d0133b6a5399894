package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
	"github.com/ablecloud-team/ablecloud-crm/pkg/testutil"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/domain"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	return Setup(Config{
		DB:       testutil.NewSQLite(t, &domain.License{}),
		Logger:   zap.NewNop(),
		KeyFunc:  testutil.KeyFunc(t),
		Metrics:  metrics.NewWithRegistry("license_service", registry, zap.NewNop()),
		Gatherer: registry,
	})
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_LicenseLifecycle(t *testing.T) {
	r := setupTestRouter(t)
	admin := testutil.AdminToken(t)
	user := testutil.UserToken(t)

	w := do(r, http.MethodPost, "/license", admin,
		`{"product_id":1,"business_id":2,"company_id":7,"issued":"2024-01-01","expired":"2030-12-31","trial":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID         uint   `json:"id"`
			LicenseKey string `json:"license_key"`
			Status     string `json:"status"`
			IssuedName string `json:"issued_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "inactive", created.Data.Status)
	assert.Equal(t, "admin", created.Data.IssuedName)
	assert.NotEmpty(t, created.Data.LicenseKey)
	path := fmt.Sprintf("/license/%d", created.Data.ID)

	w = do(r, http.MethodPost, "/license", admin,
		fmt.Sprintf(`{"license_key":%q,"product_id":1,"business_id":2,"issued":"2024-01-01","expired":"2024-12-31"}`, created.Data.LicenseKey))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/license?companyId=7&trial=1", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Data.Total)

	// users read, admins write
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPut, path+"/approve", user, "").Code)

	// a status in the body does not override activation
	w = do(r, http.MethodPut, path+"/approve", admin, `{"status":"inactive"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"active"`)
	assert.Contains(t, w.Body.String(), `"approve_user":"admin"`)

	w = do(r, http.MethodPut, path, admin, `{"issued":"2031-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, path, admin, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, admin, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, path, admin, "").Code)
}

func TestRouter_AuthRequired(t *testing.T) {
	r := setupTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/license", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/license", "garbage", "").Code)

	noRoles := testutil.Token(t, testutil.Identity{Username: "nobody"})
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/license", noRoles, "").Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := setupTestRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", "", "").Code)

	do(r, http.MethodGet, "/license/1", testutil.AdminToken(t), "")
	w := do(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "license_service_http_requests_total")
}

func TestRouter_CreateLicenseMarksBusiness(t *testing.T) {
	licensed := map[string]string{}
	mux := http.NewServeMux()
	mux.HandleFunc("/product/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":1,"name":"ABLESTACK","version":"4.2"}}`))
	})
	mux.HandleFunc("/business/2", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			licensed["2"] = body["license_key"]
			assert.Equal(t, "4.2", body["product_version"])
		}
		_, _ = w.Write([]byte(`{"data":{"id":2,"name":"KT DR"}}`))
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	api := config.APIConfig{BaseURL: upstream.URL}
	r := Setup(Config{
		DB:       testutil.NewSQLite(t, &domain.License{}),
		Logger:   zap.NewNop(),
		KeyFunc:  testutil.KeyFunc(t),
		Metrics:  metrics.NewWithRegistry("license_service", registry, zap.NewNop()),
		Gatherer: registry,
		Catalog: client.NewCatalogClient(
			svcclient.New("product", api, zap.NewNop(), nil),
			svcclient.New("business", api, zap.NewNop(), nil),
		),
	})

	w := do(r, http.MethodPost, "/license", testutil.AdminToken(t),
		`{"license_key":"KEY-77","product_id":1,"business_id":2,"issued":"2024-01-01","expired":"2030-12-31"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"business_name":"KT DR"`)
	assert.Equal(t, "KEY-77", licensed["2"])
}
