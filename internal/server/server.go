// Package server contains the HTTP surface for the application's API endpoints.
package server

import (
	"context"
	"fmt"

	"gazette/internal/cache"
	"gazette/internal/config"
	"gazette/internal/database"
	"gazette/internal/events"
	"gazette/internal/mailer"
	"gazette/internal/middleware"
	"gazette/internal/queue"
	"gazette/internal/repository"
	"gazette/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config       *config.Config
	db           *gorm.DB
	jobQueue     queue.Queue
	dispatcher   *events.Dispatcher
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	authorRepo   repository.AuthorRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository

	contentService      *service.ContentService
	ratingService       *service.RatingService
	subscriptionService *service.SubscriptionService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	jobQueue := queue.NewRedisQueue(cache.GetClient())

	middleware.InitMiddleware(cfg)

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	dispatcher := events.NewDispatcher(jobQueue, events.CacheInvalidator{}, cfg.EnqueueTimeout, middleware.Logger)

	return &Server{
		config:       cfg,
		db:           db,
		jobQueue:     jobQueue,
		dispatcher:   dispatcher,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		authorRepo:   authorRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,

		contentService:      service.NewContentService(postRepo, commentRepo, authorRepo, categoryRepo, userRepo, dispatcher),
		ratingService:       service.NewRatingService(postRepo, commentRepo, authorRepo),
		subscriptionService: service.NewSubscriptionService(categoryRepo),
	}, nil
}

// Mailer builds the configured outbound mail channel. The HTTP server never
// sends mail itself; this is for wiring worker and digest commands.
func Mailer(cfg *config.Config) mailer.Mailer {
	return mailer.NewSMTPMailer(cfg, middleware.Logger)
}

// SetupMiddleware attaches the shared middleware stack to the app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())

	prom := fiberprometheus.New("gazette")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
}

// SetupRoutes registers all API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/posts/:id", s.GetPost)
	api.Get("/posts/:id/comments", s.ListComments)
	api.Post("/posts", middleware.AuthRequired, s.CreatePost)
	api.Delete("/posts/:id", middleware.AuthRequired, s.DeletePost)
	api.Post("/posts/:id/like", middleware.AuthRequired, s.LikePost)
	api.Post("/posts/:id/dislike", middleware.AuthRequired, s.DislikePost)

	api.Post("/comments", middleware.AuthRequired, s.CreateComment)
	api.Post("/comments/:id/like", middleware.AuthRequired, s.LikeComment)
	api.Post("/comments/:id/dislike", middleware.AuthRequired, s.DislikeComment)

	api.Get("/categories/:id", s.GetCategory)
	api.Post("/categories/:id/subscribe", middleware.AuthRequired, s.Subscribe)
	api.Post("/categories/:id/unsubscribe", middleware.AuthRequired, s.Unsubscribe)

	api.Post("/authors/:id/recompute-reputation", middleware.AuthRequired, s.RecomputeReputation)

	api.Get("/ops/dead-jobs", middleware.AuthRequired, s.DeadJobs)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if client := cache.GetClient(); client != nil {
		if err := client.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
