package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/dto"
)

// AuthService signs portal users in and out
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	idp     client.IdentityProvider
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAuthService creates a new auth service
func NewAuthService(idp client.IdentityProvider, logger *zap.Logger, m *metrics.Metrics) AuthService {
	return &authService{idp: idp, logger: logger, metrics: m}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	token, err := s.idp.PasswordToken(ctx, req.Username, req.Password)
	if err != nil {
		s.metrics.RecordBusinessEvent("login_failed", 1)
		s.logger.Info("Login rejected", zap.String("username", req.Username), zap.Error(err))
		return nil, credentialsError(err)
	}
	s.metrics.RecordBusinessEvent("login", 1)
	return &dto.TokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		Username:     req.Username,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	token, err := s.idp.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, credentialsError(err)
	}
	resp := &dto.TokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}
	if info, err := s.idp.UserInfo(ctx, token.AccessToken); err == nil {
		resp.Username = info.PreferredUsername
	} else {
		s.logger.Warn("Userinfo after refresh failed", zap.Error(err))
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.idp.Logout(ctx, refreshToken); err != nil {
		return credentialsError(err)
	}
	s.metrics.RecordBusinessEvent("logout", 1)
	return nil
}

// credentialsError turns the provider's 400/401 answers into a 401 with its message
func credentialsError(err error) error {
	var kcErr *keycloak.Error
	if errors.As(err, &kcErr) && (kcErr.StatusCode == http.StatusBadRequest || kcErr.StatusCode == http.StatusUnauthorized) {
		return response.NewUnauthorizedError(kcErr.Message, "")
	}
	return err
}
