package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
	"github.com/ablecloud-team/ablecloud-crm/pkg/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// fakeKeycloak serves the realm "crm" with two users
func fakeKeycloak(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/crm/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("grant_type") {
		case "client_credentials":
			writeJSON(w, http.StatusOK, `{"access_token":"svc","expires_in":300}`)
		case "password":
			if r.PostForm.Get("password") != "secret" {
				writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_grant","error_description":"Invalid user credentials"}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"access_token":"user-access","refresh_token":"user-refresh","expires_in":300}`)
		default:
			writeJSON(w, http.StatusBadRequest, `{"error":"unsupported_grant_type"}`)
		}
	})
	mux.HandleFunc("/admin/realms/crm/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `[
			{"id":"u-admin","username":"admin","enabled":true,"attributes":{"type":["vendor"]}},
			{"id":"mgr-1","username":"kim","enabled":true,"attributes":{"type":["partner"],"company_id":["4"],"telnum":["02-1"]}}
		]`)
	})
	mux.HandleFunc("/admin/realms/crm/users/count", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `2`)
	})
	mux.HandleFunc("/admin/realms/crm/users/mgr-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"mgr-1","username":"kim","attributes":{"type":["partner"],"company_id":["4"]}}`)
	})
	mux.HandleFunc("/admin/realms/crm/users/u-admin/role-mappings/realm", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"r1","name":"Admin"}]`)
	})
	mux.HandleFunc("/admin/realms/crm/users/mgr-1/role-mappings/realm", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"r0","name":"offline_access"},{"id":"r2","name":"User"}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type recorded struct {
	query   map[string]string
	body    map[string]interface{}
	authHdr string
}

// fakeServices plays every CRUD service on one server
func fakeServices(t *testing.T, last *recorded) *httptest.Server {
	record := func(r *http.Request) {
		last.query = map[string]string{}
		for k := range r.URL.Query() {
			last.query[k] = r.URL.Query().Get(k)
		}
		last.authHdr = r.Header.Get("Authorization")
		last.body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&last.body)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/license", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		writeJSON(w, http.StatusOK, `{"data":{"items":[{"id":1,"license_key":"K1"}],"total":1,"page":1,"limit":10,"totalPages":1}}`)
	})
	mux.HandleFunc("/license/3/approve", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		writeJSON(w, http.StatusOK, `{"data":{"id":3,"status":"active","approve_user":"admin"}}`)
	})
	mux.HandleFunc("/customer/11", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		writeJSON(w, http.StatusOK, `{"data":{"id":11,"name":"Bank","manager_id":"mgr-1"}}`)
	})
	mux.HandleFunc("/partner/4", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"id":4,"name":"Acme Partner"}}`)
	})
	mux.HandleFunc("/product/99", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"product not found"}}`)
	})
	mux.HandleFunc("/credit/balance/4", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"partner_id":4,"deposit":"1000.00","credit":"250.50","balance":"749.50"}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupRouter(t *testing.T, limiter *middleware.RateLimiter) (*gin.Engine, *recorded) {
	last := &recorded{}
	services := fakeServices(t, last)
	kc := fakeKeycloak(t)

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry("gateway_test", reg, zap.NewNop())
	api := config.APIConfig{BaseURL: services.URL}
	idp := keycloak.NewClient(config.KeycloakConfig{BaseURL: kc.URL, Realm: "crm", ClientID: "gateway"},
		keycloak.NewMemoryTokenCache(), zap.NewNop(), m)

	r := Setup(Config{
		Logger:   zap.NewNop(),
		KeyFunc:  testutil.KeyFunc(t),
		BasePath: "/api",
		Metrics:  m,
		Gatherer: reg,
		Upstreams: Upstreams{
			License:  svcclient.New("license", api, zap.NewNop(), m),
			Partner:  svcclient.New("partner", api, zap.NewNop(), m),
			Product:  svcclient.New("product", api, zap.NewNop(), m),
			Business: svcclient.New("business", api, zap.NewNop(), m),
			Notice:   svcclient.New("notice", api, zap.NewNop(), m),
		},
		Identity:          idp,
		VendorName:        "ABLECLOUD",
		LookupConcurrency: 2,
		RateLimiter:       limiter,
	})
	return r, last
}

func do(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestGateway_Login(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, body := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "user-access", body["access_token"])
	assert.Equal(t, "user-refresh", body["refresh_token"])
	assert.Equal(t, "admin", body["username"])

	w, body = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid user credentials", body["message"])

	w, _ = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGateway_RequiresToken(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, _ := do(t, r, http.MethodGet, "/api/license", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateway_ListScopedToPartnerCompany(t *testing.T) {
	r, last := setupRouter(t, nil)
	token := testutil.Token(t, testutil.Identity{
		Username: "kim", Type: "partner", CompanyID: "7", Roles: []string{middleware.RoleUser},
	})

	w, body := do(t, r, http.MethodGet, "/api/license?role=User&page=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "7", last.query["companyId"])
	assert.NotContains(t, last.query, "role")
	assert.Equal(t, "Bearer "+token, last.authHdr)

	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["currentPage"])
	assert.Equal(t, float64(10), pagination["itemsPerPage"])
	assert.Equal(t, float64(1), pagination["totalItems"])
}

func TestGateway_ApproveLicense(t *testing.T) {
	r, last := setupRouter(t, nil)

	w, body := do(t, r, http.MethodPut, "/api/license/3/approve", testutil.AdminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "admin", last.body["approve_user"])
	assert.Equal(t, "active", body["data"].(map[string]interface{})["status"])
}

func TestGateway_CustomerDetail(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, body := do(t, r, http.MethodGet, "/api/customer/11", testutil.AdminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	customer := body["data"].(map[string]interface{})
	assert.Equal(t, "Bank", customer["name"])
	assert.Equal(t, "kim", customer["manager_name"])
	assert.Equal(t, "partner", customer["manager_type"])
	assert.Equal(t, "4", customer["manager_company_id"])
	assert.Equal(t, "Acme Partner", customer["manager_company"])
}

func TestGateway_ListUsers(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, body := do(t, r, http.MethodGet, "/api/user", testutil.AdminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	users := body["data"].([]interface{})
	require.Len(t, users, 2)
	admin := users[0].(map[string]interface{})
	assert.Equal(t, "Admin", admin["role"])
	assert.Equal(t, "ABLECLOUD", admin["company"])
	kim := users[1].(map[string]interface{})
	assert.Equal(t, "User", kim["role"])
	assert.Equal(t, "Acme Partner", kim["company"])
	assert.Equal(t, "02-1", kim["telnum"])

	assert.Equal(t, float64(2), body["pagination"].(map[string]interface{})["totalItems"])
}

func TestGateway_UserWritesAreAdminOnly(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, _ := do(t, r, http.MethodDelete, "/api/user/mgr-1", testutil.UserToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGateway_UpstreamErrorsKeepStatus(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, body := do(t, r, http.MethodGet, "/api/product/99", testutil.AdminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "product not found", body["message"])
}

func TestGateway_CreditBalance(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, body := do(t, r, http.MethodGet, "/api/credit/balance/4", testutil.UserToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "749.50", body["data"].(map[string]interface{})["balance"])
}

func TestGateway_RateLimited(t *testing.T) {
	r, _ := setupRouter(t, middleware.NewRateLimiter(0.001, 1, zap.NewNop()))
	creds := map[string]string{"username": "admin", "password": "secret"}

	w, _ := do(t, r, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
