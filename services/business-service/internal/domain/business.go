package domain

import (
	"gorm.io/datatypes"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// Business is a sales opportunity; license-service sets license_key when it issues a license for it
type Business struct {
	database.BaseModel
	Name           string          `gorm:"column:name;type:varchar(255);not null;default:'';index"`
	Issued         *datatypes.Date `gorm:"column:issued"`
	Expired        *datatypes.Date `gorm:"column:expired"`
	History        string          `gorm:"column:history;type:text;not null;default:''"`
	LicenseKey     string          `gorm:"column:license_key;type:varchar(255);not null;default:''"`
	ProductVersion string          `gorm:"column:product_version;type:varchar(50);not null;default:''"`
}

func (Business) TableName() string {
	return "business"
}
