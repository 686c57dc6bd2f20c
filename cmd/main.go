package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/blogsphere/config"
	"github.com/oksasatya/blogsphere/internal/container"
	esinfra "github.com/oksasatya/blogsphere/internal/infrastructure/elasticsearch"
	meminfra "github.com/oksasatya/blogsphere/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/blogsphere/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/blogsphere/internal/infrastructure/redis"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/internal/router"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL))

	closeStorage := setupStorage(ctx, cfg, logger)
	defer closeStorage()
	closeSessions := setupSessions(ctx, cfg, logger)
	defer closeSessions()
	closeOptional := setupOptional(ctx, cfg, logger)
	defer closeOptional()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Location", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	var accessLogger *logrus.Logger
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		accessLogger = logger
	}
	r.Use(middleware.AccessLog(accessLogger))

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// setupStorage wires the credential and content stores.
func setupStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	switch cfg.StorageDriver {
	case "memory":
		users := meminfra.NewUserRepository()
		container.SetUsers(users)
		container.SetPosts(meminfra.NewPostRepository())
		logger.Warn("using in-memory storage; data is lost on restart")
		return func() {}
	case "postgres":
	default:
		logger.Fatalf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		AppName:         cfg.AppName,
		ConnectAttempts: 5,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	container.SetPGPool(pool)
	container.SetUsers(pginfra.NewUserRepository(pool))
	container.SetPosts(pginfra.NewPostRepository(pool))
	return pool.Close
}

// setupSessions wires the session store.
func setupSessions(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	if cfg.SessionStore == "memory" {
		store := meminfra.NewSessionStore()
		container.SetSessionStore(store)
		sweepCtx, stop := context.WithCancel(ctx)
		go sweepSessions(sweepCtx, store, time.Minute)
		logger.Warn("using in-memory sessions; they are lost on restart and not shared between instances")
		return stop
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		logger.Fatalf("failed to connect to redis: %v", err)
	}
	container.SetRedis(rdb)
	container.SetSessionStore(redisinfra.NewSessionStore(rdb))
	return func() { _ = rdb.Close() }
}

func sweepSessions(ctx context.Context, store *meminfra.SessionStore, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			store.Sweep()
		}
	}
}

// setupOptional connects search, notifications and avatar storage when
// configured. Each is skipped with a warning when it cannot be reached.
func setupOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	var closers []func()

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.PingES(ctx, es)
		}
		if err == nil {
			err = esinfra.NewPostIndexer(es, cfg.ESPostsIndex).EnsureIndex(ctx)
		}
		if err != nil {
			helpers.LogWarn(logger, "elasticsearch disabled", err, nil)
		} else {
			container.SetES(es)
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
		if err != nil {
			helpers.LogWarn(logger, "comment notifications disabled", err, nil)
		} else {
			container.SetRabbitPub(pub)
			closers = append(closers, pub.Close)
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			helpers.LogWarn(logger, "avatar uploads disabled", err, nil)
		} else {
			container.SetGCS(gcs)
			closers = append(closers, func() { _ = gcs.Close() })
		}
	}

	return func() {
		for _, c := range closers {
			c()
		}
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
