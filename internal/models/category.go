package models

import "time"

// Category groups posts by topic. Users subscribe to categories to receive
// new-post notifications and the weekly digest.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription is a membership row in a category's subscriber set.
// The composite unique index gives set semantics: a user appears at most
// once per category regardless of how many times Subscribe runs.
type Subscription struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_category" json:"user_id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_category;index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostCategory is the explicit join between posts and categories.
// (post_id, category_id) is unique so the same pairing cannot be recorded twice.
type PostCategory struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PostID     uint `gorm:"not null;uniqueIndex:idx_post_categories_post_category;constraint:OnDelete:CASCADE" json:"post_id"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_post_categories_post_category;index;constraint:OnDelete:CASCADE" json:"category_id"`
}
