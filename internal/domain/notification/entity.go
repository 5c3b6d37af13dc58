package notification

import (
	"encoding/json"
	"time"
)

// Type represents notification type
type Type string

const (
	// TypeDuplicateLog warns a team leader that a log already exists for
	// the date and project they tried to create.
	TypeDuplicateLog Type = "duplicate_log_warning"
	// TypeLogApproved tells a team leader their log was approved.
	TypeLogApproved Type = "log_approved"
)

// Notification is a stored per-user message, fetched over REST.
type Notification struct {
	ID        int64           `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64           `gorm:"column:user_id;index" json:"user_id"`
	Type      Type            `gorm:"column:type" json:"type"`
	Title     string          `gorm:"column:title" json:"title"`
	Message   string          `gorm:"column:message" json:"message"`
	Data      json.RawMessage `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool            `gorm:"column:is_read;index" json:"is_read"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
