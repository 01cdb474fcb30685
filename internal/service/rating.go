// Package service implements the application's business operations on top of
// the repository layer.
package service

import (
	"context"

	"gazette/internal/cache"
	"gazette/internal/models"
	"gazette/internal/repository"
)

// Reputation weights: a post rating counts three times, comment ratings
// (the author's own and those received under their posts) count once.
const postRatingWeight = 3

// RatingService owns the rating counters and the derived author reputation.
type RatingService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	authorRepo  repository.AuthorRepository
}

// NewRatingService creates a new rating service
func NewRatingService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	authorRepo repository.AuthorRepository,
) *RatingService {
	return &RatingService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		authorRepo:  authorRepo,
	}
}

func validDelta(delta int) error {
	if delta != 1 && delta != -1 {
		return models.NewValidationError("delta must be +1 or -1")
	}
	return nil
}

// IncrementPostRating applies a like (+1) or dislike (-1) to the post and
// returns the rating after the update. The increment is a single conditional
// update at the storage layer, so concurrent votes never lose each other.
func (s *RatingService) IncrementPostRating(ctx context.Context, postID uint, delta int) (int, error) {
	if err := validDelta(delta); err != nil {
		return 0, err
	}
	newRating, err := s.postRepo.IncrementRating(ctx, postID, delta)
	if err != nil {
		return 0, err
	}
	// The cached rendering embeds the rating; drop it so readers see the vote.
	_ = cache.InvalidatePost(ctx, postID)
	return newRating, nil
}

// IncrementCommentRating applies a like or dislike to a comment under the
// same contract as IncrementPostRating.
func (s *RatingService) IncrementCommentRating(ctx context.Context, commentID uint, delta int) (int, error) {
	if err := validDelta(delta); err != nil {
		return 0, err
	}
	return s.commentRepo.IncrementRating(ctx, commentID, delta)
}

// RecomputeAuthorReputation rebuilds the author's reputation from stored
// facts:
//
//	reputation = 3 * Σ rating(author's posts)
//	           +     Σ rating(comments written by the author's user)
//	           +     Σ rating(comments under the author's posts)
//
// Each sum is one aggregate query. The result is persisted on the author row
// and returned. The function is idempotent: with no intervening data change
// a second call yields the same value, so concurrent recomputations for the
// same author are harmless.
func (s *RatingService) RecomputeAuthorReputation(ctx context.Context, authorID uint) (int, error) {
	author, err := s.authorRepo.GetByID(ctx, authorID)
	if err != nil {
		if models.IsNotFound(err) {
			return 0, err
		}
		return 0, models.NewUnavailableError("content store", err)
	}

	postSum, err := s.authorRepo.PostRatingSum(ctx, author.ID)
	if err != nil {
		return 0, models.NewUnavailableError("content store", err)
	}
	ownCommentSum, err := s.authorRepo.OwnCommentRatingSum(ctx, author.UserID)
	if err != nil {
		return 0, models.NewUnavailableError("content store", err)
	}
	receivedSum, err := s.authorRepo.ReceivedCommentRatingSum(ctx, author.ID)
	if err != nil {
		return 0, models.NewUnavailableError("content store", err)
	}

	reputation := postRatingWeight*postSum + ownCommentSum + receivedSum

	if err := s.authorRepo.UpdateReputation(ctx, author.ID, reputation); err != nil {
		if models.IsNotFound(err) {
			return 0, err
		}
		return 0, models.NewUnavailableError("content store", err)
	}
	return reputation, nil
}
