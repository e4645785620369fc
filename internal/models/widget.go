package models

import (
	"time"

	"gorm.io/datatypes"
)

// WidgetConfig is a user-editable preset for one widget type.
type WidgetConfig struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	WidgetType string         `gorm:"type:varchar(100);not null;index" json:"widget_type"`
	UserID     *string        `gorm:"type:varchar(255);index" json:"user_id"`
	Config     datatypes.JSON `gorm:"not null" json:"config"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (WidgetConfig) TableName() string {
	return "widget_configs"
}

// WidgetCache stores a generated widget until ExpiresAt.
type WidgetCache struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	WidgetType string         `gorm:"type:varchar(100);not null;index:idx_widget_cache_lookup,priority:1" json:"widget_type"`
	CacheKey   string         `gorm:"type:varchar(255);not null;index:idx_widget_cache_lookup,priority:2" json:"cache_key"`
	Data       datatypes.JSON `gorm:"not null" json:"data"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	ExpiresAt  time.Time      `gorm:"not null;index" json:"expires_at"`
}

func (WidgetCache) TableName() string {
	return "widget_cache"
}
