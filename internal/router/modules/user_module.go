package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
)

// UserModule wires the principal's own profile routes.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/profile")
	auth.GET("", middleware.Require(application.OpViewProfile), m.Handler.GetProfile)
	auth.POST("", middleware.Require(application.OpUpdateProfile), m.Handler.UpdateProfile)
	auth.POST("/avatar", middleware.Require(application.OpUpdateProfile), m.Handler.UploadAvatar)
}
