package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/client"
)

// Caller is the authenticated portal user a request runs for
type Caller struct {
	UserID   string
	Username string
	Token    string
	// Type and CompanyID come from token claims when the realm maps them
	Type      string
	CompanyID string
}

// Profile is the account type and company of a user
type Profile struct {
	Type      string
	CompanyID string
}

// resolveProfile prefers the token claims and falls back to the user's identity provider attributes
func resolveProfile(ctx context.Context, idp client.IdentityProvider, caller Caller) (Profile, error) {
	if caller.Type != "" {
		return Profile{Type: caller.Type, CompanyID: caller.CompanyID}, nil
	}

	var user *keycloak.User
	err := withServiceToken(ctx, idp, func(token string) error {
		var err error
		user, err = idp.GetUser(ctx, token, caller.UserID)
		return err
	})
	if err != nil {
		return Profile{}, err
	}
	return Profile{Type: user.Attr("type"), CompanyID: user.Attr("company_id")}, nil
}

// withServiceToken runs fn with the cached service token, retrying once with a fresh
// token when the identity provider rejects the cached one
func withServiceToken(ctx context.Context, idp client.IdentityProvider, fn func(token string) error) error {
	token, err := idp.ServiceToken(ctx)
	if err != nil {
		return err
	}
	err = fn(token)

	var kcErr *keycloak.Error
	if !errors.As(err, &kcErr) || kcErr.StatusCode != http.StatusUnauthorized {
		return err
	}

	idp.InvalidateServiceToken(ctx)
	if token, err = idp.ServiceToken(ctx); err != nil {
		return err
	}
	return fn(token)
}
