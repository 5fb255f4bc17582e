package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AnimeStatus is the owner's free-form watch state; any value may follow any other.
type AnimeStatus string

const (
	StatusPlanning  AnimeStatus = "Planning"
	StatusWatching  AnimeStatus = "Watching"
	StatusCompleted AnimeStatus = "Completed"
	StatusDropped   AnimeStatus = "Dropped"
	StatusOnHold    AnimeStatus = "On Hold"
)

// AnimeStatuses lists every accepted status in display order.
var AnimeStatuses = []AnimeStatus{StatusPlanning, StatusWatching, StatusCompleted, StatusDropped, StatusOnHold}

// Valid reports whether s is one of AnimeStatuses.
func (s AnimeStatus) Valid() bool {
	for _, known := range AnimeStatuses {
		if s == known {
			return true
		}
	}
	return false
}

const DefaultAnimeImage = "https://via.placeholder.com/300x400?text=No+Image"

type Anime struct {
	ID              string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	Image           string         `gorm:"not null" json:"image"`
	Genres          pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"genres"`
	Status          AnimeStatus    `gorm:"type:text;not null;default:'Planning'" json:"status"`
	Episodes        int            `gorm:"not null;default:0" json:"episodes"`
	EpisodesWatched int            `gorm:"not null;default:0" json:"episodesWatched"`
	UserID          string         `gorm:"type:uuid;not null;index" json:"userId"`
	AverageRating   float64        `gorm:"not null;default:0" json:"averageRating"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`

	// Associations
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Reviews []Review `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE;" json:"reviews,omitempty"`
}

func (a *Anime) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (Anime) TableName() string {
	return "animes"
}
