package model

import "time"

// Evaluation is a like (Like=true) or dislike of a post. The (user, post) pair is the primary key.
type Evaluation struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	Like      bool      `gorm:"column:is_like;not null" json:"like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "likes"
}
