package domain

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// LicenseStatus is the approval state of a license
type LicenseStatus string

const (
	LicenseStatusInactive LicenseStatus = "inactive"
	LicenseStatusActive   LicenseStatus = "active"
	LicenseStatusExpired  LicenseStatus = "expired"
)

func (s LicenseStatus) IsValid() bool {
	switch s {
	case LicenseStatusInactive, LicenseStatusActive, LicenseStatusExpired:
		return true
	}
	return false
}

// ProductType is the deployment target the license covers
type ProductType string

const (
	ProductTypeVM        ProductType = "vm"
	ProductTypeBareMetal ProductType = "bare-metal"
	ProductTypeContainer ProductType = "container"
)

func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeVM, ProductTypeBareMetal, ProductTypeContainer:
		return true
	}
	return false
}

// License is a product entitlement for a business over an issued/expired window
type License struct {
	database.BaseModel
	LicenseKey  string         `gorm:"column:license_key;type:varchar(64);uniqueIndex;not null"`
	ProductID   uint           `gorm:"column:product_id;not null;index"`
	ProductType ProductType    `gorm:"column:product_type;type:varchar(20);not null;default:vm"`
	BusinessID  uint           `gorm:"column:business_id;not null;index"`
	CompanyID   *uint          `gorm:"column:company_id;index"`
	Issued      datatypes.Date `gorm:"column:issued;not null"`
	Expired     datatypes.Date `gorm:"column:expired;not null;index"`
	Status      LicenseStatus  `gorm:"column:status;type:varchar(20);not null;default:inactive;index"`
	Trial       bool           `gorm:"column:trial;not null;default:false"`
	IssuedID    string         `gorm:"column:issued_id;type:varchar(64)"`
	IssuedName  string         `gorm:"column:issued_name;type:varchar(100)"`
	ApproveUser string         `gorm:"column:approve_user;type:varchar(100)"`
	Approved    *time.Time     `gorm:"column:approved"`
}

// TableName specifies the table name for License
func (License) TableName() string {
	return "license"
}
