package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
)

// Business is the subset of a business-service record a ledger entry shows
type Business struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BusinessClient resolves business names for the credit ledger
type BusinessClient interface {
	GetBusiness(ctx context.Context, id uint, token string) (*Business, error)
	// FindBusinessIDs returns the ids of every business whose name contains name
	FindBusinessIDs(ctx context.Context, name, token string) ([]uint, error)
}

type businessClient struct {
	api *svcclient.Client
}

// NewBusinessClient forwards the caller's token to business-service
func NewBusinessClient(api *svcclient.Client) BusinessClient {
	return &businessClient{api: api}
}

func (c *businessClient) GetBusiness(ctx context.Context, id uint, token string) (*Business, error) {
	var b Business
	if err := c.api.GetData(ctx, fmt.Sprintf("/business/%d", id), token, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *businessClient) FindBusinessIDs(ctx context.Context, name, token string) ([]uint, error) {
	ids := []uint{}
	for page, totalPages := 1, 1; page <= totalPages; page++ {
		query := url.Values{}
		query.Set("name", name)
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(pagination.MaxLimit))

		resp, err := c.api.Do(ctx, http.MethodGet, "/business", svcclient.Options{Token: token, Query: query})
		if err != nil {
			return nil, err
		}
		if err := c.api.AsError(resp); err != nil {
			return nil, err
		}

		data := resp.Data()
		data.Get("items").ForEach(func(_, item gjson.Result) bool {
			ids = append(ids, uint(item.Get("id").Uint()))
			return true
		})
		totalPages = int(data.Get("totalPages").Int())
	}
	return ids, nil
}
