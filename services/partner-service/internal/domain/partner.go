package domain

import (
	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// PartnerLevel is the reseller tier of a partner
type PartnerLevel string

const (
	PartnerLevelPlatinum PartnerLevel = "PLATINUM"
	PartnerLevelGold     PartnerLevel = "GOLD"
	PartnerLevelSilver   PartnerLevel = "SILVER"
	PartnerLevelVAR      PartnerLevel = "VAR"
)

func (l PartnerLevel) IsValid() bool {
	switch l {
	case PartnerLevelPlatinum, PartnerLevelGold, PartnerLevelSilver, PartnerLevelVAR:
		return true
	}
	return false
}

type Partner struct {
	database.BaseModel
	Name   string       `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Telnum string       `gorm:"column:telnum;type:varchar(50);not null;default:''" json:"telnum"`
	Level  PartnerLevel `gorm:"column:level;type:varchar(20);not null;default:GOLD;index" json:"level"`
}

func (Partner) TableName() string {
	return "partner"
}
