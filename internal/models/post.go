package models

import (
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// PostKind distinguishes long-form articles from short news items.
type PostKind string

const (
	PostKindArticle PostKind = "AR"
	PostKindNews    PostKind = "NW"
)

// Valid reports whether k is a known post kind.
func (k PostKind) Valid() bool {
	return k == PostKindArticle || k == PostKindNews
}

// Post is a published article or news item.
//
// AuthorID is nullable: deleting an author must not delete their posts.
// Rating only ever changes through the rating aggregator's atomic
// increment; application code never read-modify-writes it.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	AuthorID *uint    `gorm:"index;constraint:OnDelete:SET NULL" json:"author_id,omitempty"`
	Author   *Author  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Kind     PostKind `gorm:"size:2;not null;default:AR;index" json:"kind"`
	Title    string   `gorm:"not null;size:255;index" json:"title"`
	Body     string   `gorm:"type:text;not null" json:"body"`
	Rating   int      `gorm:"not null;default:0;index" json:"rating"`

	Categories []Category `gorm:"many2many:post_categories" json:"categories,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

const previewLen = 150

// Preview returns the first 150 runes of the body, with an ellipsis when
// the body was truncated.
func (p *Post) Preview() string {
	if utf8.RuneCountInString(p.Body) <= previewLen {
		return p.Body
	}
	runes := []rune(p.Body)
	return string(runes[:previewLen]) + "…"
}

// CategoryIDs returns the ids of the loaded category set.
func (p *Post) CategoryIDs() []uint {
	ids := make([]uint, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
