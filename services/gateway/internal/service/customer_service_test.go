package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
)

func customerUpstream(body string) *MockUpstream {
	return &MockUpstream{DoFunc: func(ctx context.Context, method, path string, opts svcclient.Options) (*svcclient.Response, error) {
		if path != "/customer/11" {
			return jsonResponse(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"customer not found"}}`), nil
		}
		return jsonResponse(http.StatusOK, body), nil
	}}
}

func newCustomerService(up *MockUpstream, idp *MockIdentityProvider, dir *MockCompanyDirectory) CustomerService {
	proxy := NewProxyService(idp, zap.NewNop(), nil)
	return NewCustomerService(proxy, &Entity{Name: "customer", Upstream: up}, idp, dir, zap.NewNop())
}

func TestCustomerService_GetCustomer_Aggregates(t *testing.T) {
	idp := &MockIdentityProvider{GetUserFunc: func(ctx context.Context, token, id string) (*keycloak.User, error) {
		assert.Equal(t, "mgr-1", id)
		return &keycloak.User{
			ID:         "mgr-1",
			Username:   "kim",
			Attributes: map[string][]string{"type": {"partner"}, "company_id": {"4"}},
		}, nil
	}}
	dir := &MockCompanyDirectory{CompanyNameFunc: func(ctx context.Context, accountType, companyID, token string) (string, error) {
		assert.Equal(t, "partner", accountType)
		assert.Equal(t, "4", companyID)
		assert.Equal(t, "caller-token", token)
		return "Acme Partner", nil
	}}
	svc := newCustomerService(customerUpstream(`{"data":{"id":11,"name":"Bank","manager_id":"mgr-1","manager_company_id":""}}`), idp, dir)

	customer, err := svc.GetCustomer(context.Background(), Caller{Token: "caller-token"}, "11")
	require.NoError(t, err)
	assert.Equal(t, "Bank", customer["name"])
	assert.Equal(t, "kim", customer["manager_name"])
	assert.Equal(t, "partner", customer["manager_type"])
	assert.Equal(t, "4", customer["manager_company_id"])
	assert.Equal(t, "Acme Partner", customer["manager_company"])
}

func TestCustomerService_GetCustomer_Degrades(t *testing.T) {
	t.Run("no manager", func(t *testing.T) {
		idp := &MockIdentityProvider{GetUserFunc: func(ctx context.Context, token, id string) (*keycloak.User, error) {
			t.Fatal("unexpected manager lookup")
			return nil, nil
		}}
		svc := newCustomerService(customerUpstream(`{"data":{"id":11,"name":"Bank","manager_id":""}}`), idp, &MockCompanyDirectory{})

		customer, err := svc.GetCustomer(context.Background(), Caller{}, "11")
		require.NoError(t, err)
		assert.NotContains(t, customer, "manager_name")
	})

	t.Run("unknown manager", func(t *testing.T) {
		svc := newCustomerService(customerUpstream(`{"data":{"id":11,"name":"Bank","manager_id":"gone"}}`), &MockIdentityProvider{}, &MockCompanyDirectory{})

		customer, err := svc.GetCustomer(context.Background(), Caller{}, "11")
		require.NoError(t, err)
		assert.Equal(t, "Bank", customer["name"])
		assert.NotContains(t, customer, "manager_name")
	})

	t.Run("company lookup fails", func(t *testing.T) {
		idp := &MockIdentityProvider{GetUserFunc: func(ctx context.Context, token, id string) (*keycloak.User, error) {
			return &keycloak.User{Username: "lee", Attributes: map[string][]string{"type": {"customer"}, "company_id": {"2"}}}, nil
		}}
		dir := &MockCompanyDirectory{CompanyNameFunc: func(ctx context.Context, accountType, companyID, token string) (string, error) {
			return "", errors.New("partner service down")
		}}
		svc := newCustomerService(customerUpstream(`{"data":{"id":11,"manager_id":"m"}}`), idp, dir)

		customer, err := svc.GetCustomer(context.Background(), Caller{}, "11")
		require.NoError(t, err)
		assert.Equal(t, "lee", customer["manager_name"])
		assert.NotContains(t, customer, "manager_company")
	})
}

func TestCustomerService_GetCustomer_NotFound(t *testing.T) {
	svc := newCustomerService(customerUpstream(`{}`), &MockIdentityProvider{}, &MockCompanyDirectory{})

	_, err := svc.GetCustomer(context.Background(), Caller{}, "99")
	require.Error(t, err)
	assert.True(t, svcclient.IsNotFound(err))
}
