// Package request parses path and query parameters the same way in every handler.
package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
)

// ParseID reads a positive integer path parameter
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, response.NewValidationError(fmt.Sprintf("Invalid %s", name), raw)
	}
	return uint(id), nil
}

// Pagination reads page and limit
func Pagination(c *gin.Context) (pagination.Params, error) {
	p, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		return p, response.NewValidationError(err.Error(), "")
	}
	return p, nil
}

// OptionalUint reads an optional positive integer query parameter
func OptionalUint(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, response.NewValidationError(fmt.Sprintf("%s must be a positive integer", name), raw)
	}
	u := uint(v)
	return &u, nil
}

// OptionalBool reads an optional boolean query parameter; 0/1 are accepted
func OptionalBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, response.NewValidationError(fmt.Sprintf("%s must be a boolean", name), raw)
	}
	return &b, nil
}

// OptionalString reads a trimmed optional query parameter
func OptionalString(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Query(name))
}
