package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
	NotificationReview NotificationType = "review"
	NotificationSystem NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFollow, NotificationReview, NotificationSystem:
		return true
	}
	return false
}

type Notification struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string           `gorm:"type:uuid;not null;index:idx_notifications_recipient_created" json:"recipientId"`
	SenderID    *string          `gorm:"type:uuid" json:"senderId,omitempty"`
	Type        NotificationType `gorm:"type:text;not null" json:"type"`
	Message     string           `gorm:"not null" json:"message"`
	Link        string           `gorm:"not null;default:''" json:"link"`
	Read        bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index:idx_notifications_recipient_created" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`

	// Associations
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;" json:"-"`
	Sender    *User `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL;" json:"sender,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
