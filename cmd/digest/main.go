// Command main runs one weekly digest pass and exits. Scheduling is left to
// cron or the platform's job runner.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gazette/internal/config"
	"gazette/internal/database"
	"gazette/internal/mailer"
	"gazette/internal/middleware"
	"gazette/internal/notify"
	"gazette/internal/repository"
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

	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	m := mailer.NewSMTPMailer(cfg, middleware.Logger)

	digest := notify.NewDigest(postRepo, categoryRepo, m,
		cfg.DigestPeriod, cfg.SiteURL, middleware.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := digest.Run(ctx, time.Now())
	if err != nil {
		log.Fatalf("Digest run failed: %v", err)
	}

	out, _ := json.Marshal(summary)
	fmt.Println(string(out))
	os.Exit(0)
}
