package domain

import (
	"github.com/shopspring/decimal"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// CreditType selects the deposit or the spending side of the ledger
type CreditType string

const (
	CreditTypeDeposit CreditType = "deposit"
	CreditTypeCredit  CreditType = "credit"
)

// Credit is one ledger entry of a partner: a purchased deposit or a spent credit
type Credit struct {
	database.BaseModel
	PartnerID  uint            `gorm:"column:partner_id;not null;index" json:"partner_id"`
	BusinessID *uint           `gorm:"column:business_id;index" json:"business_id"`
	Deposit    decimal.Decimal `gorm:"column:deposit;type:decimal(15,2);not null;default:0" json:"deposit"`
	Credit     decimal.Decimal `gorm:"column:credit;type:decimal(15,2);not null;default:0" json:"credit"`
	Note       string          `gorm:"column:note;type:text" json:"note"`
}

func (Credit) TableName() string {
	return "credit"
}
