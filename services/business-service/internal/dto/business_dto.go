package dto

import "time"

type CreateBusinessRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Issued         string `json:"issued"`
	Expired        string `json:"expired"`
	History        string `json:"history"`
	LicenseKey     string `json:"license_key" binding:"max=255"`
	ProductVersion string `json:"product_version" binding:"max=50"`
}

// UpdateBusinessRequest changes provided fields; an empty date string clears the date
type UpdateBusinessRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=255"`
	Issued         *string `json:"issued"`
	Expired        *string `json:"expired"`
	History        *string `json:"history"`
	LicenseKey     *string `json:"license_key" binding:"omitempty,max=255"`
	ProductVersion *string `json:"product_version" binding:"omitempty,max=50"`
}

type BusinessFilter struct {
	Name string
	// Available keeps only businesses without a license
	Available bool
}

type BusinessResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Issued         string    `json:"issued"`
	Expired        string    `json:"expired"`
	History        string    `json:"history"`
	LicenseKey     string    `json:"license_key"`
	ProductVersion string    `json:"product_version"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
}
