package models

import "time"

// Follow is one directed edge of the follow graph. The composite primary key
// makes (follower, following) a set.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;type:uuid" json:"followerId"`
	FollowingID string    `gorm:"primaryKey;type:uuid;index" json:"followingId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// Associations
	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
