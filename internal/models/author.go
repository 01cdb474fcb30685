package models

import "time"

// Author is the publishing identity attached 1:1 to a user.
//
// Reputation is a derived mirror of post and comment ratings. It is never
// authoritative: it can always be rebuilt by replaying the aggregation
// formula over stored rows, and only the rating aggregator writes it.
type Author struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
