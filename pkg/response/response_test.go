package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newContext()
	resp := Success(c, 0, map[string]string{"k": "v"}, "ok", nil)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, http.StatusOK, w.Code)

	var body APIResponse[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "v", body.Data["k"])
}

func TestError(t *testing.T) {
	c, w := newContext()
	Error[any](c, 0, "bad", map[string]string{"title": "is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "bad", body.Message)
}

func TestAbort(t *testing.T) {
	c, w := newContext()
	Abort(c, http.StatusForbidden, "forbidden", nil)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
