package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacySessionSnakeCase(t *testing.T) {
	raw := []byte(`{"salon_id":"s-1","user_id":"u-1"}`)

	session, err := ParseLegacySession(raw)
	require.NoError(t, err)
	assert.Equal(t, "s-1", session.SalonID)
	assert.Equal(t, "u-1", session.UserID)
	assert.False(t, session.IsAdmin)
}

func TestParseLegacySessionCamelCase(t *testing.T) {
	raw := []byte(`{"salonId":"s-2","userId":"u-2","isAdmin":true}`)

	session, err := ParseLegacySession(raw)
	require.NoError(t, err)
	assert.Equal(t, "s-2", session.SalonID)
	assert.Equal(t, "u-2", session.UserID)
	assert.True(t, session.IsAdmin)
}

func TestParseLegacySessionSnakeCaseWins(t *testing.T) {
	raw := []byte(`{"salon_id":"s-snake","salonId":"s-camel"}`)

	session, err := ParseLegacySession(raw)
	require.NoError(t, err)
	assert.Equal(t, "s-snake", session.SalonID)
}

func TestParseLegacySessionMissingSalonID(t *testing.T) {
	_, err := ParseLegacySession([]byte(`{"user_id":"u-1"}`))
	assert.Error(t, err)
}

func TestParseLegacySessionBadJSON(t *testing.T) {
	_, err := ParseLegacySession([]byte(`not json`))
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("user-1", "salon-1", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := parseJWTSession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "salon-1", session.SalonID)
	assert.False(t, session.IsAdmin)
}

func TestTokenAdminWithoutSalon(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("admin-1", "", true)
	require.NoError(t, err)

	session, err := parseJWTSession(token)
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)
	assert.Empty(t, session.SalonID)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateToken("user-1", "salon-1", false)
	assert.Error(t, err)
}

func TestParseJWTSessionRejectsTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("user-1", "salon-1", false)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = parseJWTSession(token)
	assert.Error(t, err)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSessionFromRequestBearerHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("user-1", "salon-1", false)
	require.NoError(t, err)

	c, _ := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	session, err := SessionFromRequest(c)
	require.NoError(t, err)
	assert.Equal(t, "salon-1", session.SalonID)
}

func TestSessionFromRequestLegacyCookie(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.AddCookie(&http.Cookie{
		Name:  LegacySessionCookie,
		Value: `{"salon_id":"s-1","user_id":"u-1"}`,
	})

	session, err := SessionFromRequest(c)
	require.NoError(t, err)
	assert.Equal(t, "s-1", session.SalonID)
	assert.Equal(t, "u-1", session.UserID)
}

func TestSessionFromRequestJWTCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("user-1", "salon-1", false)
	require.NoError(t, err)

	c, _ := newTestContext(t)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	session, err := SessionFromRequest(c)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

func TestSessionFromRequestNoCredentials(t *testing.T) {
	c, _ := newTestContext(t)

	_, err := SessionFromRequest(c)
	assert.Error(t, err)
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("user-1", "salon-1", false)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/protected", func(c *gin.Context) {
		assert.Equal(t, "salon-1", c.GetString("salonId"))
		assert.Equal(t, "user-1", c.GetString("userId"))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddlewareKey(t *testing.T) {
	hash, err := HashPassword("panel-key")
	require.NoError(t, err)
	t.Setenv("ADMIN_API_KEY_HASH", hash)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AdminMiddleware())
	r.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Key", "panel-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Key", "wrong-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
