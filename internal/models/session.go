package models

import "time"

// DefaultUserID is used when a request does not name a user.
const DefaultUserID = "default_user"

// ChatSession groups a sequence of messages for one user.
type ChatSession struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(255);not null;index" json:"user_id"`
	Title     *string   `gorm:"type:varchar(255)" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
	Messages  []Message `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
