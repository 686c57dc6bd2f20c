package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
)

// PostModule wires post and comment routes. Each route is gated by the
// authentication policy of its operation.
type PostModule struct {
	Handler *handlers.PostHandler
}

func NewPostModule(h *handlers.PostHandler) *PostModule {
	return &PostModule{Handler: h}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", middleware.Require(application.OpListPosts), m.Handler.Index)
	rg.GET("/post/:id", middleware.Require(application.OpViewPost), m.Handler.Show)
	rg.GET("/search", middleware.Require(application.OpSearchPosts), m.Handler.Search)

	rg.GET("/new", middleware.Require(application.OpCreatePost), m.Handler.NewForm)
	rg.POST("/new", middleware.Require(application.OpCreatePost), m.Handler.Create)
	rg.GET("/edit/:id", middleware.Require(application.OpEditPost), m.Handler.EditForm)
	rg.POST("/edit/:id", middleware.Require(application.OpEditPost), m.Handler.Update)
	rg.POST("/delete/:id", middleware.Require(application.OpDeletePost), m.Handler.Delete)
	rg.POST("/comment/:id", middleware.Require(application.OpAddComment), m.Handler.Comment)
}
