package model

import "time"

const (
	ActivityUserRegistered    = "user.registered"
	ActivityPostCreated       = "post.created"
	ActivityPostEdited        = "post.edited"
	ActivityPostDeleted       = "post.deleted"
	ActivityEvaluationSet     = "evaluation.set"
	ActivityEvaluationRemoved = "evaluation.removed"
)

// Activity is an append-only trail entry written asynchronously by the activity worker.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:32;not null;index" json:"kind"`
	PostID    uint      `gorm:"index" json:"post_id,omitempty"`
	Detail    string    `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
