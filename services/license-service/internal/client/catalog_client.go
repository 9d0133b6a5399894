package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
)

// Product is the subset of a product-service record a license shows
type Product struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Business is the subset of a business-service record a license shows
type Business struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CatalogClient resolves the product and business a license points at
type CatalogClient interface {
	GetProduct(ctx context.Context, id uint, token string) (*Product, error)
	GetBusiness(ctx context.Context, id uint, token string) (*Business, error)
	// MarkBusinessLicensed stores the issued key on the business, which takes it off the available list
	MarkBusinessLicensed(ctx context.Context, id uint, licenseKey, productVersion, token string) error
}

type catalogClient struct {
	products   *svcclient.Client
	businesses *svcclient.Client
}

// NewCatalogClient forwards the caller's token to product-service and business-service
func NewCatalogClient(products, businesses *svcclient.Client) CatalogClient {
	return &catalogClient{products: products, businesses: businesses}
}

func (c *catalogClient) GetProduct(ctx context.Context, id uint, token string) (*Product, error) {
	var p Product
	if err := c.products.GetData(ctx, fmt.Sprintf("/product/%d", id), token, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *catalogClient) GetBusiness(ctx context.Context, id uint, token string) (*Business, error) {
	var b Business
	if err := c.businesses.GetData(ctx, fmt.Sprintf("/business/%d", id), token, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *catalogClient) MarkBusinessLicensed(ctx context.Context, id uint, licenseKey, productVersion, token string) error {
	body := map[string]string{"license_key": licenseKey}
	if productVersion != "" {
		body["product_version"] = productVersion
	}
	resp, err := c.businesses.Do(ctx, http.MethodPut, fmt.Sprintf("/business/%d", id), svcclient.Options{Token: token, Body: body})
	if err != nil {
		return err
	}
	return c.businesses.AsError(resp)
}
