package models

import (
	"time"
)

// Category represents a publication topic, addressed by slug
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string    `gorm:"type:varchar(256);not null;column:title" json:"title"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Slug        string    `gorm:"type:varchar(64);not null;uniqueIndex:categories_slug_ux;column:slug" json:"slug"`
	IsPublished bool      `gorm:"not null;column:is_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}
