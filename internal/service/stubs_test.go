package service

import (
	"context"
	"testing"
	"time"

	"gazette/internal/models"
	"gazette/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post, []uint) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	listInWindowFn    func(context.Context, time.Time, time.Time) ([]*models.Post, error)
	incrementRatingFn func(context.Context, uint, int) (int, error)
	deleteFn          func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, categoryIDs []uint) error {
	return s.createFn(ctx, post, categoryIDs)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListInWindow(ctx context.Context, start, end time.Time) ([]*models.Post, error) {
	return s.listInWindowFn(ctx, start, end)
}
func (s *postRepoStub) IncrementRating(ctx context.Context, id uint, delta int) (int, error) {
	return s.incrementRatingFn(ctx, id, delta)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post, _ []uint) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listInWindowFn: func(_ context.Context, _, _ time.Time) ([]*models.Post, error) {
			return nil, nil
		},
		incrementRatingFn: func(_ context.Context, _ uint, _ int) (int, error) { return 0, nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn          func(context.Context, *models.Comment) error
	getByIDFn         func(context.Context, uint) (*models.Comment, error)
	listByPostFn      func(context.Context, uint) ([]*models.Comment, error)
	incrementRatingFn func(context.Context, uint, int) (int, error)
	deleteFn          func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) IncrementRating(ctx context.Context, id uint, delta int) (int, error) {
	return s.incrementRatingFn(ctx, id, delta)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn:      func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		incrementRatingFn: func(_ context.Context, _ uint, _ int) (int, error) { return 0, nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
	}
}

// authorRepoStub is a stub for repository.AuthorRepository.
type authorRepoStub struct {
	createFn                   func(context.Context, *models.Author) error
	getByIDFn                  func(context.Context, uint) (*models.Author, error)
	getByUserIDFn              func(context.Context, uint) (*models.Author, error)
	postRatingSumFn            func(context.Context, uint) (int, error)
	ownCommentRatingSumFn      func(context.Context, uint) (int, error)
	receivedCommentRatingSumFn func(context.Context, uint) (int, error)
	updateReputationFn         func(context.Context, uint, int) error
}

func (s *authorRepoStub) Create(ctx context.Context, author *models.Author) error {
	return s.createFn(ctx, author)
}
func (s *authorRepoStub) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	return s.getByIDFn(ctx, id)
}
func (s *authorRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Author, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *authorRepoStub) PostRatingSum(ctx context.Context, authorID uint) (int, error) {
	return s.postRatingSumFn(ctx, authorID)
}
func (s *authorRepoStub) OwnCommentRatingSum(ctx context.Context, userID uint) (int, error) {
	return s.ownCommentRatingSumFn(ctx, userID)
}
func (s *authorRepoStub) ReceivedCommentRatingSum(ctx context.Context, authorID uint) (int, error) {
	return s.receivedCommentRatingSumFn(ctx, authorID)
}
func (s *authorRepoStub) UpdateReputation(ctx context.Context, authorID uint, reputation int) error {
	return s.updateReputationFn(ctx, authorID, reputation)
}

func noopAuthorRepo() *authorRepoStub {
	return &authorRepoStub{
		createFn: func(_ context.Context, _ *models.Author) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Author, error) {
			return &models.Author{ID: id, UserID: id}, nil
		},
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Author, error) {
			return &models.Author{ID: userID, UserID: userID}, nil
		},
		postRatingSumFn:            func(_ context.Context, _ uint) (int, error) { return 0, nil },
		ownCommentRatingSumFn:      func(_ context.Context, _ uint) (int, error) { return 0, nil },
		receivedCommentRatingSumFn: func(_ context.Context, _ uint) (int, error) { return 0, nil },
		updateReputationFn:         func(_ context.Context, _ uint, _ int) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn          func(context.Context, *models.Category) error
	getByIDFn         func(context.Context, uint) (*models.Category, error)
	existingIDsFn     func(context.Context, []uint) ([]uint, error)
	subscribeFn       func(context.Context, uint, uint) error
	unsubscribeFn     func(context.Context, uint, uint) error
	subscribersOfFn   func(context.Context, []uint) ([]repository.Recipient, error)
	categoriesOfFn    func(context.Context, uint) ([]uint, error)
	subscriptionsInFn func(context.Context, []uint) ([]models.Subscription, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return s.existingIDsFn(ctx, ids)
}
func (s *categoryRepoStub) Subscribe(ctx context.Context, userID, categoryID uint) error {
	return s.subscribeFn(ctx, userID, categoryID)
}
func (s *categoryRepoStub) Unsubscribe(ctx context.Context, userID, categoryID uint) error {
	return s.unsubscribeFn(ctx, userID, categoryID)
}
func (s *categoryRepoStub) SubscribersOf(ctx context.Context, categoryIDs []uint) ([]repository.Recipient, error) {
	return s.subscribersOfFn(ctx, categoryIDs)
}
func (s *categoryRepoStub) CategoriesOf(ctx context.Context, userID uint) ([]uint, error) {
	return s.categoriesOfFn(ctx, userID)
}
func (s *categoryRepoStub) SubscriptionsIn(ctx context.Context, categoryIDs []uint) ([]models.Subscription, error) {
	return s.subscriptionsInFn(ctx, categoryIDs)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "General"}, nil
		},
		existingIDsFn:   func(_ context.Context, ids []uint) ([]uint, error) { return ids, nil },
		subscribeFn:     func(_ context.Context, _, _ uint) error { return nil },
		unsubscribeFn:   func(_ context.Context, _, _ uint) error { return nil },
		subscribersOfFn: func(_ context.Context, _ []uint) ([]repository.Recipient, error) { return nil, nil },
		categoriesOfFn:  func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		subscriptionsInFn: func(_ context.Context, _ []uint) ([]models.Subscription, error) {
			return nil, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, uint) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user", Email: "user@example.com"}, nil
		},
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation), "expected validation error, got %v", err)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err), "expected not-found error, got %v", err)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUnauthorized), "expected unauthorized error, got %v", err)
}
