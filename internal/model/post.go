package model

import "time"

type Post struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OwnerID        uint       `gorm:"not null;index" json:"owner_id"`
	Owner          *User      `gorm:"foreignKey:OwnerID" json:"-"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	CreatedAt      time.Time  `json:"creation_date"`
	LastUpdateDate *time.Time `json:"last_update_date"`
}

// PostCounts is the like/dislike tally of one post, always computed from the likes table.
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}
