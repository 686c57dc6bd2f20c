package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/response"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

type AuthHandler struct {
	Auth     *application.AuthService
	Sessions *application.SessionManager
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, sessions *application.SessionManager, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Cookies: cookies, Logger: logger}
}

type credentialsRequest struct {
	Username string `form:"username" json:"username" binding:"required,uname"`
	Password string `form:"password" json:"password" binding:"required,pwd"`
}

var credentialFields = []string{"username", "password"}

// RegisterForm describes the registration form.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"fields": credentialFields, "viewer": viewer(c)}, "register", nil)
}

// LoginForm describes the login form.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"fields": credentialFields, "viewer": viewer(c)}, "login", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if _, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, middleware.LoginPath)
}

// Login issues a session cookie and sends the client home. Every failure
// goes back to the login page without saying what was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		seeOther(c, middleware.LoginPath)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	token, exp, err := h.Sessions.CreateSession(ctx, uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	seeOther(c, "/")
}

// Logout destroys the current session, if any, and always sends the client home.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
			helpers.LogWarn(h.Logger, "session destroy failed", err, nil)
		}
	}
	h.Cookies.Clear(c)
	seeOther(c, "/")
}
