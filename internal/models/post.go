package models

import (
	"time"
)

// Post represents an authored publication.
//
// A post is publicly visible only when it is published, its pub_date is not
// in the future, and its category is published. The author always sees their
// own posts regardless of those flags.
type Post struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string    `gorm:"type:varchar(256);not null;column:title" json:"title"`
	Text        string    `gorm:"type:text;not null;column:text" json:"text"`
	ImageURL    string    `gorm:"type:varchar(1024);not null;default:'';column:image_url" json:"image_url"`
	ImageKey    string    `gorm:"type:varchar(256);not null;default:'';column:image_key" json:"-"`
	PubDate     time.Time `gorm:"not null;index:posts_pub_date_idx;column:pub_date" json:"pub_date"`
	IsPublished bool      `gorm:"not null;column:is_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"created_at"`
	AuthorID    int64     `gorm:"not null;index:posts_author_idx;column:author_id" json:"author_id"`
	CategoryID  *int64    `gorm:"index:posts_category_idx;column:category_id" json:"category_id"`
	LocationID  *int64    `gorm:"column:location_id" json:"location_id"`

	// Populated by feed queries, not a column
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`

	// Relationships
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:ID" json:"location,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// VisibleTo reports whether the post may be shown to the given viewer.
// The author sees everything; everyone else needs the post published,
// not future-dated, and in a published category.
func (p *Post) VisibleTo(viewerID int64, now time.Time) bool {
	if viewerID != 0 && viewerID == p.AuthorID {
		return true
	}
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return p.Category != nil && p.Category.IsPublished
}
