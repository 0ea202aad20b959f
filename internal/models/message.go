package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength is the upper bound on message text.
const MaxMessageLength = 140

// Message is a short post authored by a user. Messages are immutable after
// creation; only the owner may delete one.
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"type:varchar(140);not null" json:"text"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
