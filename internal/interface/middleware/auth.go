package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

// CtxRequestContextKey holds the application.RequestContext of the request.
const CtxRequestContextKey = "request_context"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// Session resolves the session cookie once per request and stores an
// immutable RequestContext in the Gin context. A cookie that no longer
// resolves is cleared; while the session store is failing the request is
// anonymous but the cookie is kept.
func Session(sessions *application.SessionManager, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := application.Anonymous()
		if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
			uid, err := sessions.Check(c.Request.Context(), token)
			switch {
			case err == nil:
				rc = application.NewRequestContext(uid)
			case !errors.Is(err, application.ErrStorage):
				cookies.Clear(c)
			}
		}
		c.Set(CtxRequestContextKey, rc)
		c.Next()
	}
}

// RequestContext returns the context set by Session, or an anonymous one.
func RequestContext(c *gin.Context) application.RequestContext {
	if v, ok := c.Get(CtxRequestContextKey); ok {
		if rc, ok := v.(application.RequestContext); ok {
			return rc
		}
	}
	return application.Anonymous()
}

// Require enforces the authentication part of op's policy. Ownership needs
// the target post and is checked by the content service.
func Require(op application.Operation) gin.HandlerFunc {
	policy := application.PolicyFor(op)
	return func(c *gin.Context) {
		if policy.Authenticated && !RequestContext(c).IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
