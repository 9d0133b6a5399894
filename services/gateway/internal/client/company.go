package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
)

// Account types stored in the identity provider "type" attribute
const (
	TypeVendor   = "vendor"
	TypePartner  = "partner"
	TypeCustomer = "customer"
)

// CompanyDirectory resolves the company name behind an account type and company id
type CompanyDirectory interface {
	CompanyName(ctx context.Context, accountType, companyID, token string) (string, error)
}

type companyDirectory struct {
	partners   Upstream
	vendorName string
}

// NewCompanyDirectory looks partners and customers up in partner-service.
// Vendor accounts all belong to vendorName.
func NewCompanyDirectory(partners Upstream, vendorName string) CompanyDirectory {
	return &companyDirectory{partners: partners, vendorName: vendorName}
}

func (d *companyDirectory) CompanyName(ctx context.Context, accountType, companyID, token string) (string, error) {
	switch accountType {
	case TypeVendor:
		return d.vendorName, nil
	case TypePartner, TypeCustomer:
	default:
		return "", nil
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return "", nil
	}

	resp, err := d.partners.Do(ctx, http.MethodGet, "/"+accountType+"/"+url.PathEscape(companyID), svcclient.Options{Token: token})
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", d.partners.AsError(resp)
	}
	return resp.Data().Get("name").String(), nil
}
