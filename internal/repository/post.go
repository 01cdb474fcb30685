// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"gazette/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, categoryIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListInWindow(ctx context.Context, start, end time.Time) ([]*models.Post, error)
	IncrementRating(ctx context.Context, id uint, delta int) (int, error)
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and its category join rows in one transaction.
// The (post, category) pairing is unique, so duplicate ids in categoryIDs
// would violate the join constraint; callers pass a deduplicated set.
func (r *postRepository) Create(ctx context.Context, post *models.Post, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, cid := range categoryIDs {
			if err := tx.Create(&models.PostCategory{PostID: post.ID, CategoryID: cid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Author").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListInWindow returns posts created in [start, end), newest first,
// with their category sets loaded.
func (r *postRepository) ListInWindow(ctx context.Context, start, end time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementRating applies the delta as a single conditional update at the
// storage layer and returns the value after the update. There is no
// read-modify-write window: two concurrent likes both land.
func (r *postRepository) IncrementRating(ctx context.Context, id uint, delta int) (int, error) {
	var newRating int
	res := r.db.WithContext(ctx).Raw(
		`UPDATE posts SET rating = rating + ? WHERE id = ? AND deleted_at IS NULL RETURNING rating`,
		delta, id,
	).Scan(&newRating)
	if res.Error != nil {
		return 0, res.Error
	}
	// RETURNING yields no row when the post does not exist.
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Post", id)
	}
	return newRating, nil
}

// Delete removes the post along with its category join rows and comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	})
}
