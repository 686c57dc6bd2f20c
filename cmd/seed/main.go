package main

import (
	"context"
	"errors"
	"flag"

	"github.com/joho/godotenv"

	"github.com/oksasatya/blogsphere/config"
	"github.com/oksasatya/blogsphere/internal/application"
	pginfra "github.com/oksasatya/blogsphere/internal/infrastructure/postgres"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

// seed creates a demo user and a welcome post through the application
// services, so the same validation and hashing apply as for real traffic.
func main() {
	username := flag.String("username", "demoUser", "demo username")
	password := flag.String("password", "password123", "demo password")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		AppName:         cfg.AppName + "-seed",
		ConnectAttempts: 1,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	auth := application.NewAuthService(users, logger)
	posts := application.NewPostService(pginfra.NewPostRepository(pool), users, users, logger)

	uid, err := auth.Register(ctx, *username, *password)
	switch {
	case errors.Is(err, application.ErrDuplicateUsername):
		uid, err = auth.Authenticate(ctx, *username, *password)
		if err != nil {
			logger.Fatalf("user %s exists with another password: %v", *username, err)
		}
		logger.WithField("user_id", uid).Info("demo user already present")
	case err != nil:
		logger.Fatalf("failed to seed user: %v", err)
	default:
		logger.WithField("user_id", uid).Info("seeded demo user")
	}

	existing, err := posts.ListPostsByAuthor(ctx, uid)
	if err != nil {
		logger.Fatalf("failed to list posts: %v", err)
	}
	if len(existing) > 0 {
		logger.WithField("count", len(existing)).Info("demo posts already present")
		return
	}
	postID, err := posts.CreatePost(ctx, uid, "Welcome to "+cfg.AppName, "This is the first post. Log in as "+*username+" to edit it.")
	if err != nil {
		logger.Fatalf("failed to seed post: %v", err)
	}
	logger.WithField("post_id", postID).Info("seeded welcome post")
}
