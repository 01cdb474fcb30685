// Command main runs the notification fan-out workers.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gazette/internal/cache"
	"gazette/internal/config"
	"gazette/internal/database"
	"gazette/internal/mailer"
	"gazette/internal/middleware"
	"gazette/internal/notify"
	"gazette/internal/queue"
	"gazette/internal/repository"
	"gazette/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)
	if cache.GetClient() == nil {
		log.Fatal("Redis is required for the worker: set REDIS_URL")
	}

	q := queue.NewRedisQueue(cache.GetClient())
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subs := service.NewSubscriptionService(categoryRepo)
	m := mailer.NewSMTPMailer(cfg, middleware.Logger)

	worker := notify.NewWorker(q, postRepo, subs, m, notify.WorkerConfig{
		SiteURL:     cfg.SiteURL,
		MaxAttempts: cfg.JobMaxAttempts,
		JobTimeout:  cfg.JobTimeout,
		BackoffBase: cfg.RetryBackoffBase,
	}, middleware.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Jobs a previous worker left in flight go back on the ready list
	// before any consumer starts.
	requeued, err := q.RequeueOrphans(ctx)
	if err != nil {
		log.Fatalf("Failed to requeue orphaned jobs: %v", err)
	}
	if requeued > 0 {
		middleware.Logger.Info("requeued orphaned jobs", slog.Int("count", requeued))
	}

	middleware.Logger.Info("starting notification workers",
		slog.Int("count", cfg.WorkerCount))

	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker.Run(ctx); err != nil && err != context.Canceled {
				middleware.Logger.Error("worker stopped",
					slog.String("error", err.Error()))
			}
		}()
	}
	wg.Wait()

	middleware.Logger.Info("workers shut down")
	os.Exit(0)
}
