package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/container"
	esinfra "github.com/oksasatya/blogsphere/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/blogsphere/internal/infrastructure/gcs"
	mqinfra "github.com/oksasatya/blogsphere/internal/infrastructure/rabbitmq"
	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/internal/router/modules"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

// Deps are the services the HTTP modules are built from.
type Deps struct {
	Auth     *application.AuthService
	Sessions *application.SessionManager
	Posts    *application.PostService
	Users    *application.UserService
	Cookies  *helpers.Manager
	Logger   *logrus.Logger

	// DebugEndpoints mounts /metrics and /debug/vars.
	DebugEndpoints bool
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users := container.GetUsers()

	posts := application.NewPostService(container.GetPosts(), users, users, logger)
	if es := container.GetES(); es != nil {
		posts.Indexer = esinfra.NewPostIndexer(es, cfg.ESPostsIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		posts.Notifier = mqinfra.NewCommentNotifier(pub, cfg.AppName, cfg.PublicBaseURL, logger)
	}

	var avatars application.AvatarStorage
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		avatars = gcsinfra.NewAvatarStorage(gcs, cfg.GCSBucket)
	}

	return Deps{
		Auth:           application.NewAuthService(users, logger),
		Sessions:       application.NewSessionManager(container.GetSessionStore(), container.GetJWT(), logger),
		Posts:          posts,
		Users:          application.NewUserService(users, avatars, logger),
		Cookies:        helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Logger:         logger,
		DebugEndpoints: cfg.DebugMetricsEnabled,
	}
}

// Mount registers session resolution and every feature module on r.
func Mount(r *Registry, d Deps) {
	r.Use(middleware.Session(d.Sessions, d.Cookies))

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Auth, d.Sessions, d.Cookies, d.Logger)))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(d.Posts, d.Logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, d.Posts, d.Logger)))
	if d.DebugEndpoints {
		r.Add(modules.NewDebugModule())
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, buildDeps())
}
