package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err      error
		status   int
		location string
	}{
		{application.ErrUnauthenticated, http.StatusSeeOther, "/login"},
		{application.ErrInvalidCredentials, http.StatusSeeOther, "/login"},
		{application.ErrForbidden, http.StatusForbidden, ""},
		{fmt.Errorf("post x: %w", application.ErrNotFound), http.StatusNotFound, ""},
		{&application.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest, ""},
		{application.ErrDuplicateUsername, http.StatusBadRequest, ""},
		{application.ErrStaleVersion, http.StatusConflict, ""},
		{application.ErrUnavailable, http.StatusServiceUnavailable, ""},
		{fmt.Errorf("load post: %w: %w", application.ErrStorage, errors.New("db down")), http.StatusInternalServerError, ""},
		{errors.New("unexpected"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			respondError(c, helpers.NewDiscardLogger(), tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}
