package repository

import (
	"context"
	"errors"

	"gazette/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recipient is a deliverable subscriber resolved from the registry.
// Email may be empty; such recipients carry no usable contact address.
type Recipient struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// HasContactAddress reports whether the recipient can receive mail.
// Fan-out and digest skip recipients without one.
func (r Recipient) HasContactAddress() bool {
	return r.Email != ""
}

// CategoryRepository defines the interface for categories and their subscriber sets.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
	Subscribe(ctx context.Context, userID, categoryID uint) error
	Unsubscribe(ctx context.Context, userID, categoryID uint) error
	SubscribersOf(ctx context.Context, categoryIDs []uint) ([]Recipient, error)
	CategoriesOf(ctx context.Context, userID uint) ([]uint, error)
	SubscriptionsIn(ctx context.Context, categoryIDs []uint) ([]models.Subscription, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Category", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistingIDs filters ids down to categories that actually exist.
func (r *categoryRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []uint
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}

// Subscribe adds the user to the category's subscriber set. The insert is
// conflict-tolerant so a repeated subscribe is a no-op, not an error, and
// concurrent subscribes cannot produce duplicate rows.
func (r *categoryRepository) Subscribe(ctx context.Context, userID, categoryID uint) error {
	sub := models.Subscription{UserID: userID, CategoryID: categoryID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sub).Error
}

// Unsubscribe removes the membership row; removing an absent row is a no-op.
func (r *categoryRepository) Unsubscribe(ctx context.Context, userID, categoryID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&models.Subscription{}).Error
}

// SubscribersOf returns the union of subscribers across the given
// categories, deduplicated in the query itself. A user subscribed to two of
// the categories appears exactly once.
func (r *categoryRepository) SubscribersOf(ctx context.Context, categoryIDs []uint) ([]Recipient, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var recipients []Recipient
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT users.id AS user_id, users.email
		 FROM users
		 JOIN subscriptions ON subscriptions.user_id = users.id
		 WHERE subscriptions.category_id IN ? AND users.deleted_at IS NULL
		 ORDER BY users.id`,
		categoryIDs,
	).Scan(&recipients).Error
	return recipients, err
}

// CategoriesOf is the inverse lookup: the set of category ids the user
// subscribes to.
func (r *categoryRepository) CategoriesOf(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// SubscriptionsIn returns the raw membership rows for the given categories,
// letting the digest build its user->categories index in one query instead
// of one CategoriesOf call per subscriber.
func (r *categoryRepository) SubscriptionsIn(ctx context.Context, categoryIDs []uint) ([]models.Subscription, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Find(&subs).Error
	return subs, err
}
