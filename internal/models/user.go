package models

import "time"

// User is a registered student. Users are never hard-deleted through the API.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Name       string    `gorm:"size:200;not null" json:"name"`
	AvatarURL  string    `gorm:"column:avatar_url;size:500;not null;default:''" json:"avatar_url"`
	Department string    `gorm:"size:200;not null;default:''" json:"department"`
	University string    `gorm:"size:200;not null;default:''" json:"university"`
	Bio        string    `gorm:"type:text;not null;default:''" json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
