package service

import (
	"context"

	"gazette/internal/events"
	"gazette/internal/models"
	"gazette/internal/repository"
)

// ContentService covers post and comment mutations. Every mutation that
// affects a post's rendering or audience goes through the event dispatcher
// hooks, synchronously, in the same unit of work.
type ContentService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	authorRepo   repository.AuthorRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	dispatcher   *events.Dispatcher
}

// CreatePostInput carries a post creation request.
type CreatePostInput struct {
	UserID      uint
	Kind        models.PostKind
	Title       string
	Body        string
	CategoryIDs []uint
}

// CreateCommentInput carries a comment creation request.
type CreateCommentInput struct {
	UserID uint
	PostID uint
	Body   string
}

// NewContentService creates a new content service
func NewContentService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	authorRepo repository.AuthorRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	dispatcher *events.Dispatcher,
) *ContentService {
	return &ContentService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		authorRepo:   authorRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
	}
}

const (
	maxTitleLen = 255
	maxBodyLen  = 50000
)

// CreatePost validates and stores the post, then fires PostCreated. A post
// may carry zero categories; it then simply has no notification audience.
func (s *ContentService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	kind := in.Kind
	if kind == "" {
		kind = models.PostKindArticle
	}
	if !kind.Valid() {
		return nil, models.NewValidationError("Invalid post kind")
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(in.Body) > maxBodyLen {
		return nil, models.NewValidationError("Body too long (max 50000 characters)")
	}

	author, err := s.authorRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	categoryIDs := dedupeIDs(in.CategoryIDs)
	if len(categoryIDs) > 0 {
		existing, err := s.categoryRepo.ExistingIDs(ctx, categoryIDs)
		if err != nil {
			return nil, err
		}
		if len(existing) != len(categoryIDs) {
			return nil, models.NewValidationError("Unknown category in request")
		}
	}

	post := &models.Post{
		AuthorID: &author.ID,
		Kind:     kind,
		Title:    in.Title,
		Body:     in.Body,
	}
	if err := s.postRepo.Create(ctx, post, categoryIDs); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.PostCreated(ctx, created)
	return created, nil
}

// DeletePost removes the post (cascading to its category joins and
// comments) and fires PostDeleted. Only the owning author may delete.
func (s *ContentService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	author, err := s.authorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if post.AuthorID == nil || *post.AuthorID != author.ID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.dispatcher.PostDeleted(ctx, post)
	return nil
}

// GetPost loads a post with its categories.
func (s *ContentService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// CreateComment attaches a comment to an existing post.
func (s *ContentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(in.Body) > maxBodyLen {
		return nil, models.NewValidationError("Body too long (max 50000 characters)")
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Body:   in.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns a post's comments, newest first. A missing post is
// NotFound rather than an empty list.
func (s *ContentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func dedupeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
