package repository

import (
	"context"
	"errors"

	"gazette/internal/models"

	"gorm.io/gorm"
)

// AuthorRepository defines the interface for author data operations.
//
// The three rating-sum methods each run as a single aggregate query at the
// storage layer. Loading rows into memory and summing in a loop is
// explicitly off the table: the aggregation contract is one round trip per
// sum regardless of how much content the author owns.
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Author, error)
	PostRatingSum(ctx context.Context, authorID uint) (int, error)
	OwnCommentRatingSum(ctx context.Context, userID uint) (int, error)
	ReceivedCommentRatingSum(ctx context.Context, authorID uint) (int, error)
	UpdateReputation(ctx context.Context, authorID uint, reputation int) error
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).Preload("User").First(&author, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Author", id)
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) GetByUserID(ctx context.Context, userID uint) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Author", userID)
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// PostRatingSum returns the sum of ratings over the author's posts.
func (r *authorRepository) PostRatingSum(ctx context.Context, authorID uint) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(rating), 0)").
		Scan(&sum).Error
	return sum, err
}

// OwnCommentRatingSum returns the sum of ratings over comments the author's
// user wrote anywhere on the site.
func (r *authorRepository) OwnCommentRatingSum(ctx context.Context, userID uint) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(rating), 0)").
		Scan(&sum).Error
	return sum, err
}

// ReceivedCommentRatingSum returns the sum of ratings over comments other
// people left under the author's posts (the author's own included).
func (r *authorRepository) ReceivedCommentRatingSum(ctx context.Context, authorID uint) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id AND posts.deleted_at IS NULL").
		Where("posts.author_id = ?", authorID).
		Select("COALESCE(SUM(comments.rating), 0)").
		Scan(&sum).Error
	return sum, err
}

// UpdateReputation writes the recomputed value to the author row only.
// Concurrent recomputations for the same author are safe: the value is a
// pure function of stored facts, so last write wins and is correct.
func (r *authorRepository) UpdateReputation(ctx context.Context, authorID uint, reputation int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Author{}).
		Where("id = ?", authorID).
		UpdateColumn("reputation", reputation)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Author", authorID)
	}
	return nil
}
