package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirtanupdate/server/internal/domain"
)

func testContext(t *testing.T, req *http.Request) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
		assert.Equal(t, "cookie-token", TokenFromRequest(testContext(t, req)))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "header-token", TokenFromRequest(testContext(t, req)))
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "cookie-token", TokenFromRequest(testContext(t, req)))
	})

	t.Run("absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "", TokenFromRequest(testContext(t, req)))
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager("test-secret", time.Hour)

	r := gin.New()
	r.GET("/me", m.Authenticate(), func(c *gin.Context) {
		claims := ClaimsFrom(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	r.GET("/admin", m.Authenticate(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	userToken, err := m.Generate(&domain.User{ID: 1, Username: "sevak", Name: "Sevak"})
	require.NoError(t, err)
	adminToken, err := m.Generate(&domain.User{ID: 2, Username: "admin", Name: "Admin", IsAdmin: true})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "garbage").Code)

	w := do("/me", userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sevak")

	assert.Equal(t, http.StatusForbidden, do("/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, do("/admin", adminToken).Code)
}
