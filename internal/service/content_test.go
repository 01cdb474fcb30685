package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"gazette/internal/events"
	"gazette/internal/models"
	"gazette/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQueue captures enqueued jobs for assertions.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job queue.Job) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return "job-1", nil
}
func (q *recordingQueue) Dequeue(context.Context, time.Duration) (*queue.Job, error) {
	return nil, nil
}
func (q *recordingQueue) Ack(context.Context, queue.Job) error                  { return nil }
func (q *recordingQueue) Retry(context.Context, queue.Job, time.Duration) error { return nil }
func (q *recordingQueue) Bury(context.Context, queue.Job, string) error         { return nil }
func (q *recordingQueue) DeadJobs(context.Context, int) ([]queue.DeadJob, error) {
	return nil, nil
}

func (q *recordingQueue) enqueued() []queue.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.Job(nil), q.jobs...)
}

func testDispatcher(q queue.Queue) *events.Dispatcher {
	return events.NewDispatcher(q, nil, time.Second, slog.New(slog.DiscardHandler))
}

func TestContentService_CreatePost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores the post and enqueues the fan-out", func(t *testing.T) {
		t.Parallel()
		q := &recordingQueue{}
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, p *models.Post, categoryIDs []uint) error {
			p.ID = 42
			assert.Equal(t, []uint{1, 2}, categoryIDs)
			return nil
		}
		svc := NewContentService(postRepo, noopCommentRepo(), noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(q))

		post, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:      1,
			Kind:        models.PostKindNews,
			Title:       "Local elections decided",
			Body:        "The count finished overnight.",
			CategoryIDs: []uint{1, 2, 1},
		})
		require.NoError(t, err)
		assert.Equal(t, uint(42), post.ID)

		jobs := q.enqueued()
		require.Len(t, jobs, 1)
		assert.Equal(t, queue.TypeNotifyNewPost, jobs[0].Type)
		assert.Equal(t, uint(42), jobs[0].PostID)
	})

	t.Run("kind defaults to article", func(t *testing.T) {
		t.Parallel()
		var storedKind models.PostKind
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, p *models.Post, _ []uint) error {
			storedKind = p.Kind
			return nil
		}
		svc := NewContentService(postRepo, noopCommentRepo(), noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Body: "b"})
		require.NoError(t, err)
		assert.Equal(t, models.PostKindArticle, storedKind)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := NewContentService(noopPostRepo(), noopCommentRepo(), noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))

		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Kind: "XX", Title: "t", Body: "b"})
		assertValidationError(t, err)

		_, err = svc.CreatePost(ctx, CreatePostInput{UserID: 1, Body: "b"})
		assertValidationError(t, err)

		_, err = svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: strings.Repeat("x", 256), Body: "b"})
		assertValidationError(t, err)

		_, err = svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t"})
		assertValidationError(t, err)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		t.Parallel()
		categoryRepo := noopCategoryRepo()
		categoryRepo.existingIDsFn = func(_ context.Context, ids []uint) ([]uint, error) {
			return ids[:1], nil
		}
		svc := NewContentService(noopPostRepo(), noopCommentRepo(), noopAuthorRepo(), categoryRepo, noopUserRepo(), testDispatcher(&recordingQueue{}))
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Body: "b", CategoryIDs: []uint{1, 99}})
		assertValidationError(t, err)
	})

	t.Run("non-author cannot publish", func(t *testing.T) {
		t.Parallel()
		authorRepo := noopAuthorRepo()
		authorRepo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Author, error) {
			return nil, models.NewNotFoundError("Author", userID)
		}
		svc := NewContentService(noopPostRepo(), noopCommentRepo(), authorRepo, noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 9, Title: "t", Body: "b"})
		assertNotFoundError(t, err)
	})
}

func TestContentService_DeletePost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	authorID := uint(3)

	t.Run("owner deletes, nothing is enqueued", func(t *testing.T) {
		t.Parallel()
		q := &recordingQueue{}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: &authorID}, nil
		}
		authorRepo := noopAuthorRepo()
		authorRepo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Author, error) {
			return &models.Author{ID: authorID, UserID: userID}, nil
		}
		svc := NewContentService(postRepo, noopCommentRepo(), authorRepo, noopCategoryRepo(), noopUserRepo(), testDispatcher(q))

		require.NoError(t, svc.DeletePost(ctx, 1, 10))
		assert.Empty(t, q.enqueued())
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		t.Parallel()
		otherAuthor := uint(8)
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: &otherAuthor}, nil
		}
		authorRepo := noopAuthorRepo()
		authorRepo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Author, error) {
			return &models.Author{ID: authorID, UserID: userID}, nil
		}
		svc := NewContentService(postRepo, noopCommentRepo(), authorRepo, noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		assertUnauthorizedError(t, svc.DeletePost(ctx, 1, 10))
	})
}

func TestContentService_CreateComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("requires an existing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewContentService(postRepo, noopCommentRepo(), noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Body: "hi"})
		assertNotFoundError(t, err)
	})

	t.Run("requires an existing user", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewContentService(noopPostRepo(), noopCommentRepo(), noopAuthorRepo(), noopCategoryRepo(), userRepo, testDispatcher(&recordingQueue{}))
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 99, PostID: 1, Body: "hi"})
		assertNotFoundError(t, err)
	})

	t.Run("stores and returns the comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 7
			return nil
		}
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Body: "hi", PostID: 1, UserID: 2}, nil
		}
		svc := NewContentService(noopPostRepo(), commentRepo, noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PostID: 1, Body: "hi"})
		require.NoError(t, err)
		assert.Equal(t, uint(7), comment.ID)
	})
}

func TestContentService_ListComments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the post's comments", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.listByPostFn = func(_ context.Context, postID uint) ([]*models.Comment, error) {
			assert.Equal(t, uint(5), postID)
			return []*models.Comment{{ID: 2, PostID: 5}, {ID: 1, PostID: 5}}, nil
		}
		svc := NewContentService(noopPostRepo(), commentRepo, noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		comments, err := svc.ListComments(ctx, 5)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, uint(2), comments[0].ID)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewContentService(postRepo, noopCommentRepo(), noopAuthorRepo(), noopCategoryRepo(), noopUserRepo(), testDispatcher(&recordingQueue{}))
		_, err := svc.ListComments(ctx, 99)
		assertNotFoundError(t, err)
	})
}
