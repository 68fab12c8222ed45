package models

import (
	"time"
)

// Comment represents a reader comment on a post, listed oldest first
type Comment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Text        string    `gorm:"type:text;not null;column:text" json:"text"`
	IsPublished bool      `gorm:"not null;column:is_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;index:comments_created_idx;column:created_at" json:"created_at"`
	PostID      int64     `gorm:"not null;index:comments_post_idx;column:post_id" json:"post_id"`
	AuthorID    int64     `gorm:"not null;column:author_id" json:"author_id"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
