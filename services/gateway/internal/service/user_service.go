package service

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/dto"
)

// portalRoles are the realm roles the portal distinguishes
var portalRoles = []string{middleware.RoleAdmin, middleware.RoleUser}

// UserService manages portal accounts in the identity provider
type UserService interface {
	ListUsers(ctx context.Context, caller Caller, filter dto.UserFilter, p pagination.Params) (*pagination.Page[dto.UserResponse], error)
	GetUser(ctx context.Context, caller Caller, id string) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, caller Caller, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	idp         client.IdentityProvider
	companies   client.CompanyDirectory
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewUserService creates a new user service. concurrency bounds the per-user lookups of a list.
func NewUserService(idp client.IdentityProvider, companies client.CompanyDirectory, concurrency int, logger *zap.Logger, m *metrics.Metrics) UserService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &userService{idp: idp, companies: companies, concurrency: concurrency, logger: logger, metrics: m}
}

func (s *userService) ListUsers(ctx context.Context, caller Caller, filter dto.UserFilter, p pagination.Params) (*pagination.Page[dto.UserResponse], error) {
	var (
		users []keycloak.User
		total int
	)
	err := withServiceToken(ctx, s.idp, func(token string) error {
		var err error
		if users, err = s.idp.ListUsers(ctx, token, keycloak.UserQuery{Search: filter.Search, First: p.Offset(), Max: p.Limit}); err != nil {
			return err
		}
		total, err = s.idp.CountUsers(ctx, token, filter.Search)
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := s.idp.ServiceToken(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(users, func(u keycloak.User, _ int) dto.UserResponse { return toUserResponse(&u) })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range items {
		item := &items[i]
		g.Go(func() error {
			return s.enrich(gctx, token, caller, item)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pagination.NewPage(items, int64(total), p), nil
}

func (s *userService) GetUser(ctx context.Context, caller Caller, id string) (*dto.UserResponse, error) {
	var user *keycloak.User
	err := withServiceToken(ctx, s.idp, func(token string) error {
		var err error
		user, err = s.idp.GetUser(ctx, token, id)
		return err
	})
	if errors.Is(err, keycloak.ErrNotFound) {
		return nil, response.NewNotFoundError("User not found", "")
	}
	if err != nil {
		return nil, err
	}

	token, err := s.idp.ServiceToken(ctx)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	if err := s.enrich(ctx, token, caller, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateUser registers the account, signs in as it to learn its subject id,
// then maps the requested realm role
func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if req.Type != client.TypeVendor && strings.TrimSpace(req.CompanyID) == "" {
		return nil, response.NewValidationError("company_id is required for partner and customer accounts", "")
	}

	user := keycloak.User{
		Username:      username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Enabled:       lo.ToPtr(true),
		EmailVerified: lo.ToPtr(false),
		Attributes: map[string][]string{
			"telnum":     {req.Telnum},
			"type":       {req.Type},
			"company_id": {strings.TrimSpace(req.CompanyID)},
		},
		Credentials: []keycloak.Credential{{Type: "password", Value: req.Password, Temporary: false}},
	}

	var locationID string
	err := withServiceToken(ctx, s.idp, func(token string) error {
		var err error
		locationID, err = s.idp.CreateUser(ctx, token, user)
		return err
	})
	if err != nil {
		s.logger.Warn("Failed to create user", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	userID, err := s.subjectOf(ctx, username, req.Password)
	if err != nil {
		if locationID == "" {
			return nil, err
		}
		s.logger.Warn("Sign-in as new user failed, using the created id",
			zap.String("username", username),
			zap.Error(err),
		)
		userID = locationID
	}

	err = withServiceToken(ctx, s.idp, func(token string) error {
		role, err := s.idp.GetRealmRole(ctx, token, req.Role)
		if err != nil {
			return err
		}
		return s.idp.AssignRealmRoles(ctx, token, userID, []keycloak.Role{{ID: role.ID, Name: role.Name}})
	})
	if err != nil {
		s.logger.Error("Failed to assign realm role",
			zap.String("user_id", userID),
			zap.String("role", req.Role),
			zap.Error(err),
		)
		message := err.Error()
		var kcErr *keycloak.Error
		if errors.As(err, &kcErr) {
			message = kcErr.Message
		}
		return nil, response.NewUnauthorizedError(message, "")
	}

	s.metrics.IncrementEntityCreated("user")
	s.logger.Info("User created",
		zap.String("user_id", userID),
		zap.String("username", username),
		zap.String("role", req.Role),
	)

	resp := toUserResponse(&user)
	resp.ID = userID
	resp.Role = req.Role
	return &resp, nil
}

func (s *userService) subjectOf(ctx context.Context, username, password string) (string, error) {
	token, err := s.idp.PasswordToken(ctx, username, password)
	if err != nil {
		return "", err
	}
	info, err := s.idp.UserInfo(ctx, token.AccessToken)
	if err != nil {
		return "", err
	}
	return info.Sub, nil
}

func (s *userService) UpdateUser(ctx context.Context, caller Caller, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var user *keycloak.User
	err := withServiceToken(ctx, s.idp, func(token string) error {
		current, err := s.idp.GetUser(ctx, token, id)
		if err != nil {
			return err
		}
		applyUserUpdate(current, req)
		if err := s.idp.UpdateUser(ctx, token, id, *current); err != nil {
			return err
		}
		user = current
		return nil
	})
	if errors.Is(err, keycloak.ErrNotFound) {
		return nil, response.NewNotFoundError("User not found", "")
	}
	if err != nil {
		return nil, err
	}

	token, err := s.idp.ServiceToken(ctx)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	if err := s.enrich(ctx, token, caller, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	err := withServiceToken(ctx, s.idp, func(token string) error {
		return s.idp.DeleteUser(ctx, token, id)
	})
	if errors.Is(err, keycloak.ErrNotFound) {
		return response.NewNotFoundError("User not found", "")
	}
	if err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id))
	return nil
}

// enrich adds the portal role and the company name. A company that cannot be
// resolved is logged and left empty.
func (s *userService) enrich(ctx context.Context, token string, caller Caller, u *dto.UserResponse) error {
	roles, err := s.idp.UserRealmRoles(ctx, token, u.ID)
	if err != nil {
		return err
	}
	if role, ok := lo.Find(roles, func(r keycloak.Role) bool { return lo.Contains(portalRoles, r.Name) }); ok {
		u.Role = role.Name
	}

	company, err := s.companies.CompanyName(ctx, u.Type, u.CompanyID, caller.Token)
	if err != nil {
		s.logger.Warn("User company lookup failed",
			zap.String("user_id", u.ID),
			zap.String("type", u.Type),
			zap.String("company_id", u.CompanyID),
			zap.Error(err),
		)
		return nil
	}
	u.Company = company
	return nil
}

func applyUserUpdate(u *keycloak.User, req *dto.UpdateUserRequest) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Enabled != nil {
		u.Enabled = req.Enabled
	}
	if u.Attributes == nil {
		u.Attributes = map[string][]string{}
	}
	if req.Telnum != nil {
		u.Attributes["telnum"] = []string{*req.Telnum}
	}
	if req.Type != nil {
		u.Attributes["type"] = []string{*req.Type}
	}
	if req.CompanyID != nil {
		u.Attributes["company_id"] = []string{strings.TrimSpace(*req.CompanyID)}
	}
	// credentials are never sent back on update
	u.Credentials = nil
}

func toUserResponse(u *keycloak.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Enabled:          u.Enabled == nil || *u.Enabled,
		CreatedTimestamp: u.CreatedTimestamp,
		Type:             u.Attr("type"),
		Telnum:           u.Attr("telnum"),
		CompanyID:        u.Attr("company_id"),
	}
}
