package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/go-resty/resty/v2"
)

// Credential is a keycloak credential representation
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// User is a keycloak user representation
type User struct {
	ID               string              `json:"id,omitempty"`
	Username         string              `json:"username,omitempty"`
	FirstName        string              `json:"firstName,omitempty"`
	LastName         string              `json:"lastName,omitempty"`
	Email            string              `json:"email,omitempty"`
	Enabled          *bool               `json:"enabled,omitempty"`
	EmailVerified    *bool               `json:"emailVerified,omitempty"`
	CreatedTimestamp int64               `json:"createdTimestamp,omitempty"`
	Attributes       map[string][]string `json:"attributes,omitempty"`
	Credentials      []Credential        `json:"credentials,omitempty"`
}

// Attr returns the first value of an attribute
func (u *User) Attr(name string) string {
	if values := u.Attributes[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Role is a realm role representation
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserQuery filters ListUsers
type UserQuery struct {
	Search string
	First  int
	Max    int
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.First > 0 {
		v.Set("first", strconv.Itoa(q.First))
	}
	if q.Max > 0 {
		v.Set("max", strconv.Itoa(q.Max))
	}
	return v
}

func (c *Client) admin(ctx context.Context, token string) *resty.Request {
	return c.http.R().SetContext(ctx).SetAuthToken(token).SetHeader("Accept", "application/json")
}

func decode(resp *resty.Response, operation string, out interface{}) error {
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("keycloak %s: failed to decode: %w", operation, err)
	}
	return nil
}

// ListUsers lists realm users
func (c *Client) ListUsers(ctx context.Context, token string, q UserQuery) ([]User, error) {
	req := c.admin(ctx, token).SetQueryParamsFromValues(q.values())
	resp, err := c.execute(req, http.MethodGet, c.adminPath("/users"), "list_users")
	if err != nil {
		return nil, err
	}
	users := []User{}
	if err := decode(resp, "list_users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsers counts realm users matching search
func (c *Client) CountUsers(ctx context.Context, token, search string) (int, error) {
	req := c.admin(ctx, token).SetQueryParamsFromValues(UserQuery{Search: search}.values())
	resp, err := c.execute(req, http.MethodGet, c.adminPath("/users/count"), "count_users")
	if err != nil {
		return 0, err
	}
	var n int
	if err := decode(resp, "count_users", &n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetUser fetches one user. A missing user yields an error matching ErrNotFound.
func (c *Client) GetUser(ctx context.Context, token, id string) (*User, error) {
	resp, err := c.execute(c.admin(ctx, token), http.MethodGet, c.adminPath("/users/"+url.PathEscape(id)), "get_user")
	if err != nil {
		return nil, err
	}
	var user User
	if err := decode(resp, "get_user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user and returns the id from the Location header (may be empty)
func (c *Client) CreateUser(ctx context.Context, token string, user User) (string, error) {
	req := c.admin(ctx, token).SetHeader("Content-Type", "application/json").SetBody(user)
	resp, err := c.execute(req, http.MethodPost, c.adminPath("/users"), "create_user")
	if err != nil {
		return "", err
	}
	if loc := resp.Header().Get("Location"); loc != "" {
		return path.Base(loc), nil
	}
	return "", nil
}

// UpdateUser replaces the provided fields of a user
func (c *Client) UpdateUser(ctx context.Context, token, id string, user User) error {
	req := c.admin(ctx, token).SetHeader("Content-Type", "application/json").SetBody(user)
	_, err := c.execute(req, http.MethodPut, c.adminPath("/users/"+url.PathEscape(id)), "update_user")
	return err
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	_, err := c.execute(c.admin(ctx, token), http.MethodDelete, c.adminPath("/users/"+url.PathEscape(id)), "delete_user")
	return err
}

// GetRealmRole resolves a realm role by name
func (c *Client) GetRealmRole(ctx context.Context, token, name string) (*Role, error) {
	resp, err := c.execute(c.admin(ctx, token), http.MethodGet, c.adminPath("/roles/"+url.PathEscape(name)), "get_role")
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decode(resp, "get_role", &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// UserRealmRoles lists the realm roles mapped to a user
func (c *Client) UserRealmRoles(ctx context.Context, token, userID string) ([]Role, error) {
	resp, err := c.execute(c.admin(ctx, token), http.MethodGet, c.adminPath("/users/"+url.PathEscape(userID)+"/role-mappings/realm"), "user_roles")
	if err != nil {
		return nil, err
	}
	roles := []Role{}
	if err := decode(resp, "user_roles", &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRealmRoles maps realm roles to a user; keycloak answers 204
func (c *Client) AssignRealmRoles(ctx context.Context, token, userID string, roles []Role) error {
	req := c.admin(ctx, token).SetHeader("Content-Type", "application/json").SetBody(roles)
	resp, err := c.execute(req, http.MethodPost, c.adminPath("/users/"+url.PathEscape(userID)+"/role-mappings/realm"), "assign_roles")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusNoContent {
		return newError("assign_roles", resp.StatusCode(), resp.Body())
	}
	return nil
}
