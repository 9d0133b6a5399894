package dto

import "time"

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Version     string  `json:"version" binding:"max=100"`
	ISOFilePath string  `json:"iso_file_path" binding:"max=1024"`
	Checksum    string  `json:"checksum" binding:"max=255"`
	Enabled     *bool   `json:"enabled"`
	Contents    *string `json:"contents"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Version     *string `json:"version" binding:"omitempty,max=100"`
	ISOFilePath *string `json:"iso_file_path" binding:"omitempty,max=1024"`
	Checksum    *string `json:"checksum" binding:"omitempty,max=255"`
	Enabled     *bool   `json:"enabled"`
	Contents    *string `json:"contents"`
}

type ProductFilter struct {
	Name    string
	Enabled *bool
}

// DownloadResponse carries a time-limited link to the product ISO
type DownloadResponse struct {
	ProductID uint      `json:"product_id"`
	FileName  string    `json:"file_name"`
	Checksum  string    `json:"checksum"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
