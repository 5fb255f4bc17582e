package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review belongs to exactly one Anime; one per (anime, reviewer).
type Review struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	AnimeID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_anime_user" json:"animeId"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_anime_user" json:"userId"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 10" json:"rating"`
	Review    string    `gorm:"type:text;not null" json:"review"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Review) TableName() string {
	return "reviews"
}
