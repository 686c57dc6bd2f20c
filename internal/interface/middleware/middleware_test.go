package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/infrastructure/memory"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/metrics"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	e := gin.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	assert.Equal(t, incoming, serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	assert.NotEqual(t, "<script>", serve(e, req).Body.String())
}

func TestRealIP(t *testing.T) {
	e := gin.New()
	e.Use(RealIP())
	e.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.7", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", " 198.51.100.1 , 10.0.0.1")
	assert.Equal(t, "198.51.100.1", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "not-an-ip")
	req.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "192.0.2.10", serve(e, req).Body.String())
}

func TestSessionAndRequire(t *testing.T) {
	sessions := application.NewSessionManager(memory.NewSessionStore(), helpers.NewJWTManager("mw", time.Hour), nil)
	cookies := helpers.NewCookie("", false)

	e := gin.New()
	e.Use(Session(sessions, cookies))
	e.GET("/open", Require(application.OpListPosts), func(c *gin.Context) {
		uid, _ := RequestContext(c).Principal()
		c.String(http.StatusOK, "hello "+uid)
	})
	e.GET("/closed", Require(application.OpCreatePost), func(c *gin.Context) { c.String(http.StatusOK, "secret") })

	w := serve(e, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, "hello ", w.Body.String())

	w = serve(e, httptest.NewRequest(http.MethodGet, "/closed", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	token, _, err := sessions.CreateSession(t.Context(), "alice-id")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: token})
	w = serve(e, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: token})
	assert.Equal(t, "hello alice-id", serve(e, req).Body.String())
}

type downSessionStore struct{}

func (downSessionStore) Save(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}
func (downSessionStore) Lookup(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}
func (downSessionStore) Delete(context.Context, string) error { return errors.New("connection refused") }

func TestSession_KeepsCookieWhileStoreIsDown(t *testing.T) {
	jwt := helpers.NewJWTManager("mw", time.Hour)
	cookies := helpers.NewCookie("", false)
	token, _, err := jwt.GenerateSessionToken("sid-1")
	require.NoError(t, err)

	e := gin.New()
	e.Use(Session(application.NewSessionManager(downSessionStore{}, jwt, helpers.NewDiscardLogger()), cookies))
	e.GET("/open", Require(application.OpListPosts), func(c *gin.Context) {
		c.String(http.StatusOK, "%v", RequestContext(c).IsAuthenticated())
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: token})
	w := serve(e, req)
	assert.Equal(t, "false", w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "cookie must survive a store outage")
}

func TestSession_ClearsUnknownCookie(t *testing.T) {
	sessions := application.NewSessionManager(memory.NewSessionStore(), helpers.NewJWTManager("mw", time.Hour), nil)
	e := gin.New()
	e.Use(Session(sessions, helpers.NewCookie("", false)))
	e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, value := range []string{"garbage", mustToken(t, "mw", "never-saved")} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: value})
		cookies := serve(e, req).Result().Cookies()
		require.Len(t, cookies, 1, value)
		assert.Equal(t, "", cookies[0].Value)
		assert.True(t, cookies[0].MaxAge < 0)
	}
}

func mustToken(t *testing.T, secret, sid string) string {
	t.Helper()
	tok, _, err := helpers.NewJWTManager(secret, time.Hour).GenerateSessionToken(sid)
	require.NoError(t, err)
	return tok
}

func TestRequestContextDefaultsToAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, RequestContext(c).IsAuthenticated())
	c.Set(CtxRequestContextKey, "not a request context")
	assert.False(t, RequestContext(c).IsAuthenticated())
}

func TestAccessLogCountsRoutes(t *testing.T) {
	e := gin.New()
	e.Use(AccessLog(helpers.NewDiscardLogger()))
	e.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/items/:id", "418")
	before := testutil.ToFloat64(counter)
	serve(e, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	serve(e, httptest.NewRequest(http.MethodGet, "/items/2", nil))
	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unmatched := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	serve(e, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}
