package client

import (
	"context"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
)

// IdentityProvider is the part of the Keycloak realm API the gateway uses
type IdentityProvider interface {
	ServiceToken(ctx context.Context) (string, error)
	InvalidateServiceToken(ctx context.Context)
	PasswordToken(ctx context.Context, username, password string) (*keycloak.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*keycloak.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	UserInfo(ctx context.Context, accessToken string) (*keycloak.UserInfo, error)

	ListUsers(ctx context.Context, token string, q keycloak.UserQuery) ([]keycloak.User, error)
	CountUsers(ctx context.Context, token, search string) (int, error)
	GetUser(ctx context.Context, token, id string) (*keycloak.User, error)
	CreateUser(ctx context.Context, token string, user keycloak.User) (string, error)
	UpdateUser(ctx context.Context, token, id string, user keycloak.User) error
	DeleteUser(ctx context.Context, token, id string) error
	GetRealmRole(ctx context.Context, token, name string) (*keycloak.Role, error)
	UserRealmRoles(ctx context.Context, token, userID string) ([]keycloak.Role, error)
	AssignRealmRoles(ctx context.Context, token, userID string, roles []keycloak.Role) error
}

var _ IdentityProvider = (*keycloak.Client)(nil)
