package models

import "time"

// Follow is one follower → followee edge. The composite unique index is what
// guarantees at most one row per ordered pair, even under concurrent creates.
type Follow struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	FollowerID  int       `gorm:"not null;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID int       `gorm:"not null;uniqueIndex:idx_follower_following" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID" json:"follower"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}
