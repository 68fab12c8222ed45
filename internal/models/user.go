package models

import (
	"time"
)

// User represents a registered author identity
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username" json:"username"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex:users_email_ux;column:email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash" json:"-"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:'';column:first_name" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null;default:'';column:last_name" json:"last_name"`
	Bio          string    `gorm:"type:text;column:bio" json:"bio"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Posts    []Post    `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
