package domain

import (
	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// Customer is an end customer, managed by an identity-provider user of some company
type Customer struct {
	database.BaseModel
	Name             string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Telnum           string `gorm:"column:telnum;type:varchar(50);not null;default:''" json:"telnum"`
	ManagerID        string `gorm:"column:manager_id;type:varchar(255);not null;default:'';index" json:"manager_id"`
	ManagerCompanyID string `gorm:"column:manager_company_id;type:varchar(255);not null;default:'';index" json:"manager_company_id"`
}

func (Customer) TableName() string {
	return "customer"
}
