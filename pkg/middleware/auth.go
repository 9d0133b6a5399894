package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
)

// Realm roles understood by every service
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Context keys set by Auth
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRoles    = "roles"
	ContextKeyToken    = "jwtToken"
	ContextKeyClaims   = "claims"
)

// Claims are the identity provider claims the services read
type Claims struct {
	jwt.RegisteredClaims
	Username    string `json:"preferred_username"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	CompanyID   string `json:"company_id"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	Roles []string `json:"roles"`
}

// AllRoles merges realm roles and a flat roles claim
func (c *Claims) AllRoles() []string {
	return lo.Uniq(append(append([]string{}, c.RealmAccess.Roles...), c.Roles...))
}

// NewKeyFunc verifies RS256 tokens with the realm public key when configured,
// otherwise HS256 tokens with the shared secret
func NewKeyFunc(cfg config.JWTConfig) (jwt.Keyfunc, error) {
	if cfg.PublicKey != "" {
		key, err := parsePublicKey(cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		return func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		}, nil
	}

	if cfg.Secret == "" {
		return nil, errors.New("jwt secret or public key is required")
	}
	secret := []byte(cfg.Secret)
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, nil
}

// the realm "public_key" value is a bare base64 body without PEM armor
func parsePublicKey(raw string) (*rsa.PublicKey, error) {
	pem := strings.TrimSpace(raw)
	if !strings.HasPrefix(pem, "-----BEGIN") {
		pem = "-----BEGIN PUBLIC KEY-----\n" + pem + "\n-----END PUBLIC KEY-----"
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt public key: %w", err)
	}
	return key, nil
}

// Auth validates the bearer token and stores its identity in the gin context
func Auth(keyFunc jwt.Keyfunc, opts ...jwt.ParserOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc, opts...)
		if err != nil || !token.Valid {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			return
		}

		if claims.Subject == "" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in token")
			return
		}

		c.Set(ContextKeyUserID, claims.Subject)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRoles, claims.AllRoles())
		c.Set(ContextKeyToken, tokenString)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// RequireRoles lets the request through when the caller holds any of roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasAnyRole(c, roles...) {
			response.AbortWithError(c, http.StatusForbidden, response.ErrCodeForbidden, "Insufficient role")
			return
		}
		c.Next()
	}
}

// HasAnyRole reports whether the authenticated caller holds one of roles
func HasAnyRole(c *gin.Context, roles ...string) bool {
	granted := c.GetStringSlice(ContextKeyRoles)
	return lo.SomeBy(roles, func(r string) bool { return lo.Contains(granted, r) })
}

func GetUserID(c *gin.Context) string   { return c.GetString(ContextKeyUserID) }
func GetUsername(c *gin.Context) string { return c.GetString(ContextKeyUsername) }
func GetToken(c *gin.Context) string    { return c.GetString(ContextKeyToken) }

// GetClaims returns the parsed claims, nil on unauthenticated routes
func GetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
