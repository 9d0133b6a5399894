package domain

import (
	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
)

// NoticeLevel is the audience of a notice: every reader or one partner tier
type NoticeLevel string

const (
	NoticeLevelAll      NoticeLevel = "ALL"
	NoticeLevelPlatinum NoticeLevel = "PLATINUM"
	NoticeLevelGold     NoticeLevel = "GOLD"
	NoticeLevelSilver   NoticeLevel = "SILVER"
	NoticeLevelVAR      NoticeLevel = "VAR"
)

func (l NoticeLevel) IsValid() bool {
	switch l {
	case NoticeLevelAll, NoticeLevelPlatinum, NoticeLevelGold, NoticeLevelSilver, NoticeLevelVAR:
		return true
	}
	return false
}

type Notice struct {
	database.BaseModel
	Title     string      `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content   string      `gorm:"column:content;type:text;not null;default:''" json:"content"`
	Level     NoticeLevel `gorm:"column:level;type:varchar(20);not null;default:ALL;index" json:"level"`
	CompanyID *uint       `gorm:"column:company_id;index" json:"company_id"`
	Writer    string      `gorm:"column:writer;type:varchar(100);not null;default:''" json:"writer"`
}

func (Notice) TableName() string {
	return "notice"
}
