package pagination

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		expected  Params
		expectErr bool
	}{
		{name: "defaults", expected: Params{Page: 1, Limit: 10}},
		{name: "explicit", page: "3", limit: "25", expected: Params{Page: 3, Limit: 25}},
		{name: "zero falls back", page: "0", limit: "0", expected: Params{Page: 1, Limit: 10}},
		{name: "negative falls back", page: "-2", limit: "-5", expected: Params{Page: 1, Limit: 10}},
		{name: "limit capped", page: "1", limit: "500", expected: Params{Page: 1, Limit: MaxLimit}},
		{name: "whitespace", page: " 2 ", limit: " 5", expected: Params{Page: 2, Limit: 5}},
		{name: "non numeric page", page: "abc", expectErr: true},
		{name: "non numeric limit", limit: "1.5", expectErr: true},
		{name: "largest page", page: strconv.Itoa(MaxPage), limit: "100", expected: Params{Page: MaxPage, Limit: MaxLimit}},
		{name: "page beyond range", page: "2147483648", expectErr: true},
		{name: "page overflows int64", page: "9223372036854775807", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.page, tt.limit)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOffset_LargestPage(t *testing.T) {
	p, err := Parse(strconv.Itoa(MaxPage), strconv.Itoa(MaxLimit))
	require.NoError(t, err)
	assert.Equal(t, int64(MaxPage-1)*MaxLimit, int64(p.Offset()))
	assert.Positive(t, p.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(21, 10))
	assert.Equal(t, 1, TotalPages(5, 0))
}

func TestNewPage_NilItems(t *testing.T) {
	page := NewPage[string](nil, 0, Default())
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
}

func TestMap(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 13, Params{Page: 2, Limit: 3})
	mapped := Map(page, func(i int) string { return strconv.Itoa(i * 10) })

	assert.Equal(t, []string{"10", "20", "30"}, mapped.Items)
	assert.Equal(t, int64(13), mapped.Total)
	assert.Equal(t, 2, mapped.Page)
	assert.Equal(t, 5, mapped.TotalPages)
}

func TestProperty_PageArithmetic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every row falls on exactly one page", prop.ForAll(
		func(total int64, limit int) bool {
			pages := TotalPages(total, limit)
			if total == 0 {
				return pages == 1
			}
			lastPage := Params{Page: pages, Limit: limit}
			// the last page starts inside the result set and covers its end
			return int64(lastPage.Offset()) < total && int64(lastPage.Offset()+limit) >= total
		},
		gen.Int64Range(0, 100000),
		gen.IntRange(1, MaxLimit),
	))

	properties.Property("offsets are contiguous", prop.ForAll(
		func(page, limit int) bool {
			current := Params{Page: page, Limit: limit}
			next := Params{Page: page + 1, Limit: limit}
			return next.Offset()-current.Offset() == limit && current.Offset() >= 0
		},
		gen.IntRange(1, 10000),
		gen.IntRange(1, MaxLimit),
	))

	properties.Property("parsed params are always in range", prop.ForAll(
		func(page, limit int) bool {
			p, err := Parse(strconv.Itoa(page), strconv.Itoa(limit))
			return err == nil && p.Page >= 1 && p.Limit >= 1 && p.Limit <= MaxLimit
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}
