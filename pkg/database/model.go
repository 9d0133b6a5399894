package database

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel carries the id and audit columns every table shares.
// Removed is the soft delete marker; gorm hides rows where it is set.
type BaseModel struct {
	ID      uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Created time.Time      `gorm:"column:created;autoCreateTime" json:"created"`
	Updated time.Time      `gorm:"column:updated;autoUpdateTime" json:"updated"`
	Removed gorm.DeletedAt `gorm:"column:removed;index" json:"-"`
}
