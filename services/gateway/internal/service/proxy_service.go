package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/client"
)

// roleParam asks for a list restricted to the caller's company
const roleParam = "role"

// Entity is one resource the gateway forwards
type Entity struct {
	// Name is the resource path segment on the upstream, e.g. "license"
	Name string
	// ScopeParam is the upstream filter that pins a partner caller's list to their company.
	// Empty when the list is never scoped.
	ScopeParam string
	Upstream   client.Upstream
}

func (e *Entity) path(parts ...string) string {
	p := "/" + e.Name
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// Pagination is the portal list counter block
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
}

// ListResult is an upstream page reshaped for the portal
type ListResult struct {
	Items      json.RawMessage
	Pagination Pagination
}

// ProxyService forwards portal calls to the CRUD services with the caller's token
type ProxyService interface {
	List(ctx context.Context, e *Entity, caller Caller, query url.Values) (*ListResult, error)
	Get(ctx context.Context, e *Entity, caller Caller, id string) (json.RawMessage, error)
	Fetch(ctx context.Context, e *Entity, caller Caller, parts ...string) (json.RawMessage, error)
	Create(ctx context.Context, e *Entity, caller Caller, body json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, e *Entity, caller Caller, id string, body json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, e *Entity, caller Caller, id string) error
	Approve(ctx context.Context, e *Entity, caller Caller, id string) (json.RawMessage, error)
}

type proxyService struct {
	idp     client.IdentityProvider
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewProxyService creates a new proxy service
func NewProxyService(idp client.IdentityProvider, logger *zap.Logger, m *metrics.Metrics) ProxyService {
	return &proxyService{idp: idp, logger: logger, metrics: m}
}

func (s *proxyService) List(ctx context.Context, e *Entity, caller Caller, query url.Values) (*ListResult, error) {
	upstreamQuery := url.Values{}
	for key, values := range query {
		if key != roleParam {
			upstreamQuery[key] = values
		}
	}

	if e.ScopeParam != "" && query.Get(roleParam) == middleware.RoleUser {
		profile, err := resolveProfile(ctx, s.idp, caller)
		if err != nil {
			s.logger.Error("Failed to resolve caller company",
				zap.String("entity", e.Name),
				zap.String("user_id", caller.UserID),
				zap.Error(err),
			)
			return nil, err
		}
		if profile.Type == client.TypePartner {
			if profile.CompanyID == "" {
				return nil, response.NewForbiddenError("Partner account has no company", "")
			}
			upstreamQuery.Set(e.ScopeParam, profile.CompanyID)
		}
	}

	resp, err := s.do(ctx, e, http.MethodGet, e.path(), svcclient.Options{Token: caller.Token, Query: upstreamQuery})
	if err != nil {
		return nil, err
	}

	page := resp.Data()
	items := json.RawMessage("[]")
	if v := page.Get("items"); v.IsArray() {
		items = json.RawMessage(v.Raw)
	}
	totalPages := int(page.Get("totalPages").Int())
	if totalPages < 1 {
		totalPages = 1
	}
	return &ListResult{
		Items: items,
		Pagination: Pagination{
			CurrentPage:  int(page.Get("page").Int()),
			ItemsPerPage: int(page.Get("limit").Int()),
			TotalPages:   totalPages,
			TotalItems:   page.Get("total").Int(),
		},
	}, nil
}

func (s *proxyService) Get(ctx context.Context, e *Entity, caller Caller, id string) (json.RawMessage, error) {
	return s.Fetch(ctx, e, caller, id)
}

// Fetch GETs a path below the entity, e.g. "12" or "balance", "3"
func (s *proxyService) Fetch(ctx context.Context, e *Entity, caller Caller, parts ...string) (json.RawMessage, error) {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(strings.TrimSpace(p))
	}
	resp, err := s.do(ctx, e, http.MethodGet, e.path(escaped...), svcclient.Options{Token: caller.Token})
	if err != nil {
		return nil, err
	}
	return data(resp), nil
}

func (s *proxyService) Create(ctx context.Context, e *Entity, caller Caller, body json.RawMessage) (json.RawMessage, error) {
	if err := checkBody(body); err != nil {
		return nil, err
	}
	resp, err := s.do(ctx, e, http.MethodPost, e.path(), svcclient.Options{Token: caller.Token, Body: []byte(body)})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordBusinessEvent(e.Name+"_created", 1)
	return data(resp), nil
}

func (s *proxyService) Update(ctx context.Context, e *Entity, caller Caller, id string, body json.RawMessage) (json.RawMessage, error) {
	if err := checkBody(body); err != nil {
		return nil, err
	}
	resp, err := s.do(ctx, e, http.MethodPut, e.path(url.PathEscape(id)), svcclient.Options{Token: caller.Token, Body: []byte(body)})
	if err != nil {
		return nil, err
	}
	return data(resp), nil
}

func (s *proxyService) Delete(ctx context.Context, e *Entity, caller Caller, id string) error {
	_, err := s.do(ctx, e, http.MethodDelete, e.path(url.PathEscape(id)), svcclient.Options{Token: caller.Token})
	return err
}

// Approve activates a license on behalf of the caller
func (s *proxyService) Approve(ctx context.Context, e *Entity, caller Caller, id string) (json.RawMessage, error) {
	if caller.Username == "" {
		return nil, response.NewUnauthorizedError("Username not found in token", "")
	}
	body := map[string]string{"approve_user": caller.Username}
	resp, err := s.do(ctx, e, http.MethodPut, e.path(url.PathEscape(id), "approve"), svcclient.Options{Token: caller.Token, Body: body})
	if err != nil {
		return nil, err
	}
	s.logger.Info("License approved",
		zap.String("license_id", id),
		zap.String("approve_user", caller.Username),
	)
	return data(resp), nil
}

// do returns transport failures as-is and non-2xx answers as *svcclient.Error
func (s *proxyService) do(ctx context.Context, e *Entity, method, path string, opts svcclient.Options) (*svcclient.Response, error) {
	resp, err := e.Upstream.Do(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, e.Upstream.AsError(resp)
	}
	return resp, nil
}

func data(resp *svcclient.Response) json.RawMessage {
	if d := resp.Data(); d.Exists() {
		return json.RawMessage(d.Raw)
	}
	return json.RawMessage("null")
}

func checkBody(body json.RawMessage) error {
	if len(body) == 0 || !json.Valid(body) {
		return response.NewValidationError("Request body must be valid JSON", "")
	}
	return nil
}
