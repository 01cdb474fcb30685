package service

import (
	"context"

	"gazette/internal/models"
	"gazette/internal/repository"
)

// SubscriptionService is the category subscription registry.
type SubscriptionService struct {
	categoryRepo repository.CategoryRepository
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(categoryRepo repository.CategoryRepository) *SubscriptionService {
	return &SubscriptionService{categoryRepo: categoryRepo}
}

// GetCategory loads a single category.
func (s *SubscriptionService) GetCategory(ctx context.Context, categoryID uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, categoryID)
}

// Subscribe adds the user to the category's subscriber set. Subscribing
// twice is a no-op. A missing category is reported as NotFound.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, categoryID uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return s.categoryRepo.Subscribe(ctx, userID, categoryID)
}

// Unsubscribe removes the user from the category's subscriber set.
// Unsubscribing while not subscribed is a no-op.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, categoryID uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return s.categoryRepo.Unsubscribe(ctx, userID, categoryID)
}

// SubscribersOf returns the deduplicated union of subscribers across the
// given categories: a user subscribed to several of them appears once.
func (s *SubscriptionService) SubscribersOf(ctx context.Context, categoryIDs []uint) ([]repository.Recipient, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	return s.categoryRepo.SubscribersOf(ctx, categoryIDs)
}

// CategoriesOf returns the ids of the categories the user subscribes to.
func (s *SubscriptionService) CategoriesOf(ctx context.Context, userID uint) ([]uint, error) {
	return s.categoryRepo.CategoriesOf(ctx, userID)
}
