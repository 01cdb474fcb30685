package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to exactly one post and one commenting user.
// Rating follows the same atomic-increment contract as Post.Rating.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"post_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Rating    int            `gorm:"not null;default:0;index" json:"rating"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
