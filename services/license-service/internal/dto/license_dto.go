package dto

import (
	"time"
)

// CreateLicenseRequest is the body of POST /license
type CreateLicenseRequest struct {
	LicenseKey  string `json:"license_key" binding:"omitempty,max=64"`
	ProductID   uint   `json:"product_id" binding:"required"`
	ProductType string `json:"product_type"`
	BusinessID  uint   `json:"business_id" binding:"required"`
	CompanyID   *uint  `json:"company_id"`
	Issued      string `json:"issued" binding:"required"`
	Expired     string `json:"expired" binding:"required"`
	Trial       bool   `json:"trial"`
}

// UpdateLicenseRequest is the body of PUT /license/:id; absent fields are kept
type UpdateLicenseRequest struct {
	ProductID   *uint   `json:"product_id"`
	ProductType *string `json:"product_type"`
	BusinessID  *uint   `json:"business_id"`
	CompanyID   *uint   `json:"company_id"`
	Issued      *string `json:"issued"`
	Expired     *string `json:"expired"`
	Trial       *bool   `json:"trial"`
	Status      *string `json:"status"`
}

// ApproveLicenseRequest is the body of PUT /license/:id/approve; approval always sets status active
type ApproveLicenseRequest struct {
	ApproveUser string `json:"approve_user"`
}

// LicenseFilter narrows GET /license
type LicenseFilter struct {
	ProductID   *uint
	ProductType string
	BusinessID  *uint
	CompanyID   *uint
	Trial       *bool
	Status      string
	LicenseKey  string
}

// Issuer identifies the caller creating a license
type Issuer struct {
	ID   string
	Name string
}

// LicenseResponse is a license with the product and business names resolved
type LicenseResponse struct {
	ID             uint       `json:"id"`
	LicenseKey     string     `json:"license_key"`
	ProductID      uint       `json:"product_id"`
	ProductName    string     `json:"product_name"`
	ProductVersion string     `json:"product_version"`
	ProductType    string     `json:"product_type"`
	BusinessID     uint       `json:"business_id"`
	BusinessName   string     `json:"business_name"`
	CompanyID      *uint      `json:"company_id"`
	Issued         string     `json:"issued"`
	Expired        string     `json:"expired"`
	Status         string     `json:"status"`
	Trial          bool       `json:"trial"`
	IssuedID       string     `json:"issued_id"`
	IssuedName     string     `json:"issued_name"`
	ApproveUser    string     `json:"approve_user"`
	Approved       *time.Time `json:"approved"`
	Created        time.Time  `json:"created"`
	Updated        time.Time  `json:"updated"`
}
