package domain

import (
	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// Product is a released build of an AbleStack product with its ISO image
type Product struct {
	database.BaseModel
	Name        string  `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Version     string  `gorm:"column:version;type:varchar(100);not null;default:''" json:"version"`
	ISOFilePath string  `gorm:"column:iso_file_path;type:varchar(1024);not null;default:''" json:"iso_file_path"`
	Checksum    string  `gorm:"column:checksum;type:varchar(255);not null;default:''" json:"checksum"`
	Enabled     bool    `gorm:"column:enabled;not null" json:"enabled"`
	Contents    *string `gorm:"column:contents;type:text" json:"contents"`
}

func (Product) TableName() string {
	return "product"
}

// HasISO reports whether an image is attached
func (p *Product) HasISO() bool {
	return p.ISOFilePath != ""
}
