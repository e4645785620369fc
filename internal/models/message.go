package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single chat turn. Assistant messages may carry the widgets
// rendered alongside the reply as a JSON array.
type Message struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID int64          `gorm:"not null;index" json:"session_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Role      Role           `gorm:"type:varchar(50);not null" json:"role"`
	Widgets   datatypes.JSON `json:"widgets"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
