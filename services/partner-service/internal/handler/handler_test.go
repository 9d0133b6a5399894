package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
)

// MockPartnerService is a mock implementation of PartnerService
type MockPartnerService struct {
	ListPartnersFunc  func(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) (*pagination.Page[*domain.Partner], error)
	CreatePartnerFunc func(ctx context.Context, req *dto.CreatePartnerRequest) (*domain.Partner, error)
}

func (m *MockPartnerService) ListPartners(ctx context.Context, filter dto.PartnerFilter, p pagination.Params) (*pagination.Page[*domain.Partner], error) {
	if m.ListPartnersFunc != nil {
		return m.ListPartnersFunc(ctx, filter, p)
	}
	return pagination.NewPage[*domain.Partner](nil, 0, p), nil
}

func (m *MockPartnerService) GetPartner(ctx context.Context, id uint) (*domain.Partner, error) {
	return nil, response.NewNotFoundError("Partner not found", "")
}

func (m *MockPartnerService) CreatePartner(ctx context.Context, req *dto.CreatePartnerRequest) (*domain.Partner, error) {
	if m.CreatePartnerFunc != nil {
		return m.CreatePartnerFunc(ctx, req)
	}
	return &domain.Partner{Name: req.Name}, nil
}

func (m *MockPartnerService) UpdatePartner(ctx context.Context, id uint, req *dto.UpdatePartnerRequest) (*domain.Partner, error) {
	return &domain.Partner{}, nil
}

func (m *MockPartnerService) DeletePartner(ctx context.Context, id uint) error {
	return nil
}

// MockCreditService is a mock implementation of CreditService
type MockCreditService struct {
	ListCreditsFunc  func(ctx context.Context, filter dto.CreditFilter, p pagination.Params, token string) (*pagination.Page[*dto.CreditResponse], error)
	CreateCreditFunc func(ctx context.Context, req *dto.CreateCreditRequest) (*dto.CreditResponse, error)
	GetBalanceFunc   func(ctx context.Context, partnerID uint) (*dto.BalanceResponse, error)
}

func (m *MockCreditService) ListCredits(ctx context.Context, filter dto.CreditFilter, p pagination.Params, token string) (*pagination.Page[*dto.CreditResponse], error) {
	if m.ListCreditsFunc != nil {
		return m.ListCreditsFunc(ctx, filter, p, token)
	}
	return pagination.NewPage[*dto.CreditResponse](nil, 0, p), nil
}

func (m *MockCreditService) GetCredit(ctx context.Context, id uint, token string) (*dto.CreditResponse, error) {
	return &dto.CreditResponse{ID: id}, nil
}

func (m *MockCreditService) CreateCredit(ctx context.Context, req *dto.CreateCreditRequest) (*dto.CreditResponse, error) {
	if m.CreateCreditFunc != nil {
		return m.CreateCreditFunc(ctx, req)
	}
	return &dto.CreditResponse{}, nil
}

func (m *MockCreditService) UpdateCredit(ctx context.Context, id uint, req *dto.UpdateCreditRequest) (*dto.CreditResponse, error) {
	return &dto.CreditResponse{ID: id}, nil
}

func (m *MockCreditService) DeleteCredit(ctx context.Context, id uint) error {
	return nil
}

func (m *MockCreditService) GetBalance(ctx context.Context, partnerID uint) (*dto.BalanceResponse, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, partnerID)
	}
	return &dto.BalanceResponse{PartnerID: partnerID}, nil
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setupPartnerRouter(svc *MockPartnerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPartnerHandler(svc, zap.NewNop())
	r.GET("/partner", h.ListPartners)
	r.GET("/partner/:id", h.GetPartner)
	r.POST("/partner", h.CreatePartner)
	r.DELETE("/partner/:id", h.DeletePartner)
	return r
}

func setupCreditRouter(svc *MockCreditService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCreditHandler(svc, zap.NewNop())
	r.GET("/credit", h.ListCredits)
	r.GET("/credit/balance/:partnerId", h.GetBalance)
	r.POST("/credit", h.CreateCredit)
	return r
}

func TestPartnerHandler_ListPartners(t *testing.T) {
	svc := &MockPartnerService{
		ListPartnersFunc: func(ctx context.Context, f dto.PartnerFilter, p pagination.Params) (*pagination.Page[*domain.Partner], error) {
			assert.Equal(t, "able", f.Name)
			assert.Equal(t, "GOLD", f.Level)
			assert.Equal(t, 3, p.Page)
			return pagination.NewPage([]*domain.Partner{{Name: "ablecloud"}}, 21, p), nil
		},
	}
	w := serve(setupPartnerRouter(svc), http.MethodGet, "/partner?page=3&name=able&level=GOLD", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPages":3`)
}

func TestPartnerHandler_Errors(t *testing.T) {
	r := setupPartnerRouter(&MockPartnerService{})

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/partner/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/partner/x", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/partner", `{"telnum":"02"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/partner", `{`).Code)

	w := serve(r, http.MethodDelete, "/partner/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":4`)
}

func TestCreditHandler_ListCredits(t *testing.T) {
	svc := &MockCreditService{
		ListCreditsFunc: func(ctx context.Context, f dto.CreditFilter, p pagination.Params, token string) (*pagination.Page[*dto.CreditResponse], error) {
			require.NotNil(t, f.PartnerID)
			assert.Equal(t, uint(2), *f.PartnerID)
			assert.Nil(t, f.BusinessID)
			assert.Equal(t, "deposit", f.Type)
			return pagination.NewPage[*dto.CreditResponse](nil, 0, p), nil
		},
	}
	r := setupCreditRouter(svc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/credit?partner_id=2&type=deposit", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/credit?business_id=-1", "").Code)
}

func TestCreditHandler_ListCredits_NameSearch(t *testing.T) {
	svc := &MockCreditService{
		ListCreditsFunc: func(ctx context.Context, f dto.CreditFilter, p pagination.Params, token string) (*pagination.Page[*dto.CreditResponse], error) {
			assert.Equal(t, "able", f.PartnerName)
			assert.Equal(t, "kt cloud", f.BusinessName)
			assert.Equal(t, "caller-token", token)
			items := []*dto.CreditResponse{{ID: 1, PartnerID: 2, Partner: "Able Systems", Business: "KT Cloud"}}
			return pagination.NewPage(items, 1, p), nil
		},
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextKeyToken, "caller-token") })
	r.GET("/credit", NewCreditHandler(svc, zap.NewNop()).ListCredits)

	w := serve(r, http.MethodGet, "/credit?partner=able&business=kt%20cloud", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"partner":"Able Systems"`)
	assert.Contains(t, w.Body.String(), `"business":"KT Cloud"`)
}

func TestCreditHandler_CreateCredit_DecimalInput(t *testing.T) {
	svc := &MockCreditService{
		CreateCreditFunc: func(ctx context.Context, req *dto.CreateCreditRequest) (*dto.CreditResponse, error) {
			assert.Equal(t, "1500.5", req.Deposit.String())
			assert.True(t, req.Credit.IsZero())
			return &dto.CreditResponse{ID: 1, Deposit: req.Deposit.StringFixed(2), Credit: "0.00"}, nil
		},
	}
	r := setupCreditRouter(svc)

	w := serve(r, http.MethodPost, "/credit", `{"partner_id":2,"deposit":"1500.50"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"deposit":"1500.50"`)

	w = serve(r, http.MethodPost, "/credit", `{"partner_id":2,"deposit":1500.5}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/credit", `{"deposit":"10"}`).Code)
}

func TestCreditHandler_GetBalance(t *testing.T) {
	svc := &MockCreditService{
		GetBalanceFunc: func(ctx context.Context, partnerID uint) (*dto.BalanceResponse, error) {
			return &dto.BalanceResponse{PartnerID: partnerID, Deposit: "10.00", Credit: "0.00", Balance: "10.00"}, nil
		},
	}
	r := setupCreditRouter(svc)

	w := serve(r, http.MethodGet, "/credit/balance/7", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"partner_id":7`)
	assert.Contains(t, w.Body.String(), `"balance":"10.00"`)
}

func TestCreditHandler_GetBalance_ReadsPartnerFromPath(t *testing.T) {
	var got uint
	svc := &MockCreditService{
		GetBalanceFunc: func(ctx context.Context, partnerID uint) (*dto.BalanceResponse, error) {
			got = partnerID
			return &dto.BalanceResponse{PartnerID: partnerID, Deposit: "0.00", Credit: "0.00", Balance: "0.00"}, nil
		},
	}
	r := setupCreditRouter(svc)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/credit/balance/42", "").Code)
	assert.Equal(t, uint(42), got)

	got = 0
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/credit/balance/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/credit/balance/0", "").Code)
	assert.Zero(t, got, "service must not run for an invalid partner id")
}
