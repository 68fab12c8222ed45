package models

import (
	"time"
)

// Location represents a place a post can be tagged with
type Location struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string    `gorm:"type:varchar(256);not null;column:name" json:"name"`
	IsPublished bool      `gorm:"not null;column:is_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Location
func (Location) TableName() string {
	return "locations"
}
