package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/response"
)

// respondError maps an application error onto the HTTP outcome. Anything
// not recognised is logged and hidden behind a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *application.ValidationError
	switch {
	case errors.Is(err, application.ErrUnauthenticated), errors.Is(err, application.ErrInvalidCredentials):
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{ve.Field: ve.Message})
	case errors.Is(err, application.ErrDuplicateUsername):
		response.Error[any](c, http.StatusBadRequest, "username already taken", nil)
	case errors.Is(err, application.ErrStaleVersion):
		response.Error[any](c, http.StatusConflict, "post was modified, reload and try again", nil)
	case errors.Is(err, application.ErrUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "feature not available", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(middleware.CtxRequestIDKey),
		})
		_ = c.Error(err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// viewer describes the acting principal to clients.
func viewer(c *gin.Context) gin.H {
	uid, ok := middleware.RequestContext(c).Principal()
	return gin.H{"authenticated": ok, "user_id": uid}
}

func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
