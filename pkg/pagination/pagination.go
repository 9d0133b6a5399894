// Package pagination implements the page/limit contract shared by every list endpoint.
package pagination

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit far from integer overflow
	MaxPage      = math.MaxInt32
)

// Params is a validated page request
type Params struct {
	Page  int
	Limit int
}

// Default returns the first page with the default limit
func Default() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// Parse validates raw page and limit query values.
// Empty values and values below 1 fall back to defaults, limit is capped at MaxLimit.
// A page beyond MaxPage is an error.
func Parse(pageStr, limitStr string) (Params, error) {
	p := Default()

	if s := strings.TrimSpace(pageStr); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("page must be an integer: %q", pageStr)
		}
		if page > MaxPage {
			return p, fmt.Errorf("page must not exceed %d", MaxPage)
		}
		if page >= 1 {
			p.Page = page
		}
	}

	if s := strings.TrimSpace(limitStr); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("limit must be an integer: %q", limitStr)
		}
		if limit >= 1 {
			p.Limit = limit
		}
	}

	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

// Offset returns the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope applies offset and limit to a query
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// TotalPages returns ceil(total/limit), never less than 1
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		return 1
	}
	return pages
}

// Page is the list payload returned by every CRUD service
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage builds a Page from a result slice and its total count
func NewPage[T any](items []T, total int64, p Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}

// Map converts the items of a page while keeping its counters
func Map[T, U any](page *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return &Page[U]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
