package service

import (
	"context"
	"net/http"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
)

// MockUpstream is a mock implementation of client.Upstream
type MockUpstream struct {
	DoFunc func(ctx context.Context, method, path string, opts svcclient.Options) (*svcclient.Response, error)
}

func (m *MockUpstream) Name() string { return "mock" }

func (m *MockUpstream) Do(ctx context.Context, method, path string, opts svcclient.Options) (*svcclient.Response, error) {
	if m.DoFunc != nil {
		return m.DoFunc(ctx, method, path, opts)
	}
	return &svcclient.Response{StatusCode: http.StatusOK, Body: []byte(`{"data":null}`)}, nil
}

func (m *MockUpstream) AsError(resp *svcclient.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &svcclient.Error{Service: "mock", StatusCode: resp.StatusCode, Code: resp.ErrorCode(), Message: resp.ErrorMessage()}
}

func jsonResponse(status int, body string) *svcclient.Response {
	return &svcclient.Response{StatusCode: status, Body: []byte(body)}
}

// MockIdentityProvider is a mock implementation of client.IdentityProvider
type MockIdentityProvider struct {
	ServiceTokenFunc     func(ctx context.Context) (string, error)
	InvalidateFunc       func(ctx context.Context)
	PasswordTokenFunc    func(ctx context.Context, username, password string) (*keycloak.TokenResponse, error)
	RefreshTokenFunc     func(ctx context.Context, refreshToken string) (*keycloak.TokenResponse, error)
	LogoutFunc           func(ctx context.Context, refreshToken string) error
	UserInfoFunc         func(ctx context.Context, accessToken string) (*keycloak.UserInfo, error)
	ListUsersFunc        func(ctx context.Context, token string, q keycloak.UserQuery) ([]keycloak.User, error)
	CountUsersFunc       func(ctx context.Context, token, search string) (int, error)
	GetUserFunc          func(ctx context.Context, token, id string) (*keycloak.User, error)
	CreateUserFunc       func(ctx context.Context, token string, user keycloak.User) (string, error)
	UpdateUserFunc       func(ctx context.Context, token, id string, user keycloak.User) error
	DeleteUserFunc       func(ctx context.Context, token, id string) error
	GetRealmRoleFunc     func(ctx context.Context, token, name string) (*keycloak.Role, error)
	UserRealmRolesFunc   func(ctx context.Context, token, userID string) ([]keycloak.Role, error)
	AssignRealmRolesFunc func(ctx context.Context, token, userID string, roles []keycloak.Role) error
}

func (m *MockIdentityProvider) ServiceToken(ctx context.Context) (string, error) {
	if m.ServiceTokenFunc != nil {
		return m.ServiceTokenFunc(ctx)
	}
	return "service-token", nil
}

func (m *MockIdentityProvider) InvalidateServiceToken(ctx context.Context) {
	if m.InvalidateFunc != nil {
		m.InvalidateFunc(ctx)
	}
}

func (m *MockIdentityProvider) PasswordToken(ctx context.Context, username, password string) (*keycloak.TokenResponse, error) {
	if m.PasswordTokenFunc != nil {
		return m.PasswordTokenFunc(ctx, username, password)
	}
	return &keycloak.TokenResponse{AccessToken: "user-token", RefreshToken: "refresh", ExpiresIn: 300}, nil
}

func (m *MockIdentityProvider) RefreshToken(ctx context.Context, refreshToken string) (*keycloak.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return &keycloak.TokenResponse{AccessToken: "user-token", RefreshToken: "refresh", ExpiresIn: 300}, nil
}

func (m *MockIdentityProvider) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	return nil
}

func (m *MockIdentityProvider) UserInfo(ctx context.Context, accessToken string) (*keycloak.UserInfo, error) {
	if m.UserInfoFunc != nil {
		return m.UserInfoFunc(ctx, accessToken)
	}
	return &keycloak.UserInfo{Sub: "sub-1", PreferredUsername: "user"}, nil
}

func (m *MockIdentityProvider) ListUsers(ctx context.Context, token string, q keycloak.UserQuery) ([]keycloak.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, token, q)
	}
	return []keycloak.User{}, nil
}

func (m *MockIdentityProvider) CountUsers(ctx context.Context, token, search string) (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx, token, search)
	}
	return 0, nil
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, token, id string) (*keycloak.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, token, id)
	}
	return nil, &keycloak.Error{Operation: "get_user", StatusCode: http.StatusNotFound, Message: "User not found"}
}

func (m *MockIdentityProvider) CreateUser(ctx context.Context, token string, user keycloak.User) (string, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, token, user)
	}
	return "", nil
}

func (m *MockIdentityProvider) UpdateUser(ctx context.Context, token, id string, user keycloak.User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, token, id, user)
	}
	return nil
}

func (m *MockIdentityProvider) DeleteUser(ctx context.Context, token, id string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, token, id)
	}
	return nil
}

func (m *MockIdentityProvider) GetRealmRole(ctx context.Context, token, name string) (*keycloak.Role, error) {
	if m.GetRealmRoleFunc != nil {
		return m.GetRealmRoleFunc(ctx, token, name)
	}
	return &keycloak.Role{ID: "role-" + name, Name: name}, nil
}

func (m *MockIdentityProvider) UserRealmRoles(ctx context.Context, token, userID string) ([]keycloak.Role, error) {
	if m.UserRealmRolesFunc != nil {
		return m.UserRealmRolesFunc(ctx, token, userID)
	}
	return []keycloak.Role{}, nil
}

func (m *MockIdentityProvider) AssignRealmRoles(ctx context.Context, token, userID string, roles []keycloak.Role) error {
	if m.AssignRealmRolesFunc != nil {
		return m.AssignRealmRolesFunc(ctx, token, userID, roles)
	}
	return nil
}

// MockCompanyDirectory is a mock implementation of client.CompanyDirectory
type MockCompanyDirectory struct {
	CompanyNameFunc func(ctx context.Context, accountType, companyID, token string) (string, error)
}

func (m *MockCompanyDirectory) CompanyName(ctx context.Context, accountType, companyID, token string) (string, error) {
	if m.CompanyNameFunc != nil {
		return m.CompanyNameFunc(ctx, accountType, companyID, token)
	}
	return "", nil
}
