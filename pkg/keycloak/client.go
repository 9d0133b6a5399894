// Package keycloak is a small client for the Keycloak token, userinfo and admin REST endpoints.
package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
)

const (
	serviceTokenKey = "service_token"
	// tokens are dropped from the cache this long before keycloak expires them
	expiryMargin = 30 * time.Second
)

// TokenResponse is the openid-connect token endpoint answer
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
}

// UserInfo is the userinfo endpoint answer
type UserInfo struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
}

// Client calls one keycloak realm with the gateway's confidential client
type Client struct {
	cfg     config.KeycloakConfig
	http    *resty.Client
	cache   TokenCache
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClient creates a realm client. cache may be nil to disable token caching.
func NewClient(cfg config.KeycloakConfig, cache TokenCache, logger *zap.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:     cfg,
		http:    resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).SetTimeout(timeout),
		cache:   cache,
		logger:  logger,
		metrics: m,
	}
}

func (c *Client) realmPath(suffix string) string {
	return "/realms/" + url.PathEscape(c.cfg.Realm) + suffix
}

func (c *Client) adminPath(suffix string) string {
	return "/admin/realms/" + url.PathEscape(c.cfg.Realm) + suffix
}

// execute runs a request and records metrics. Non-2xx answers are returned as *Error.
func (c *Client) execute(req *resty.Request, method, path, operation string) (*resty.Response, error) {
	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.metrics.RecordExternalAPICall("/keycloak"+path, method, status, duration, err)

	if err != nil {
		c.logger.Error("Keycloak request failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("keycloak %s: %w", operation, err)
	}
	if resp.IsError() {
		kcErr := newError(operation, status, resp.Body())
		c.logger.Warn("Keycloak returned error",
			zap.String("operation", operation),
			zap.Int("status", status),
			zap.String("message", kcErr.Message),
		)
		return resp, kcErr
	}
	return resp, nil
}

func (c *Client) requestToken(ctx context.Context, form map[string]string, operation string) (*TokenResponse, error) {
	form["client_id"] = c.cfg.ClientID
	if c.cfg.ClientSecret != "" {
		form["client_secret"] = c.cfg.ClientSecret
	}
	if c.cfg.Scope != "" {
		form["scope"] = c.cfg.Scope
	}

	req := c.http.R().SetContext(ctx).SetFormData(form)
	resp, err := c.execute(req, http.MethodPost, c.realmPath("/protocol/openid-connect/token"), operation)
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return nil, fmt.Errorf("keycloak %s: failed to decode token: %w", operation, err)
	}
	if token.AccessToken == "" {
		return nil, &Error{Operation: operation, StatusCode: resp.StatusCode(), Message: "token response has no access_token"}
	}
	return &token, nil
}

// ServiceToken returns a client_credentials access token, cached until shortly before expiry
func (c *Client) ServiceToken(ctx context.Context) (string, error) {
	if c.cache != nil {
		token, ok, err := c.cache.Get(ctx, serviceTokenKey)
		if err != nil {
			c.logger.Warn("Token cache read failed", zap.Error(err))
		} else if ok {
			return token, nil
		}
	}

	token, err := c.requestToken(ctx, map[string]string{"grant_type": "client_credentials"}, "client_credentials")
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		ttl := time.Duration(token.ExpiresIn)*time.Second - expiryMargin
		if ttl > 0 {
			if err := c.cache.Set(ctx, serviceTokenKey, token.AccessToken, ttl); err != nil {
				c.logger.Warn("Token cache write failed", zap.Error(err))
			}
		}
	}
	return token.AccessToken, nil
}

// InvalidateServiceToken drops the cached service token, e.g. after a 401
func (c *Client) InvalidateServiceToken(ctx context.Context) {
	if c.cache != nil {
		_ = c.cache.Delete(ctx, serviceTokenKey)
	}
}

// PasswordToken performs the resource owner password grant
func (c *Client) PasswordToken(ctx context.Context, username, password string) (*TokenResponse, error) {
	return c.requestToken(ctx, map[string]string{
		"grant_type": "password",
		"username":   username,
		"password":   password,
	}, "password")
}

// RefreshToken exchanges a refresh token
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.requestToken(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, "refresh_token")
}

// Logout revokes the session behind a refresh token
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	form := map[string]string{
		"client_id":     c.cfg.ClientID,
		"refresh_token": refreshToken,
	}
	if c.cfg.ClientSecret != "" {
		form["client_secret"] = c.cfg.ClientSecret
	}
	req := c.http.R().SetContext(ctx).SetFormData(form)
	_, err := c.execute(req, http.MethodPost, c.realmPath("/protocol/openid-connect/logout"), "logout")
	return err
}

// UserInfo returns the profile behind a user access token
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req := c.http.R().SetContext(ctx).SetAuthToken(accessToken)
	resp, err := c.execute(req, http.MethodGet, c.realmPath("/protocol/openid-connect/userinfo"), "userinfo")
	if err != nil {
		return nil, err
	}
	var info UserInfo
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		return nil, fmt.Errorf("keycloak userinfo: failed to decode: %w", err)
	}
	return &info, nil
}
