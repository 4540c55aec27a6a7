package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtside/config"
	"courtside/internal/auth"
	"courtside/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret: "test-secret",
		AccessExpiry: time.Hour,
		Issuer:       "courtside",
	}
}

func authTestRouter(cfg *config.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthRequired(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": Role(c)})
	})
	r.GET("/admin", AuthRequired(cfg), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	cfg := testJWTConfig()
	r := authTestRouter(cfg)

	token, err := auth.GenerateAccessToken(cfg, 42, "a@b.c", domain.RoleUser)
	require.NoError(t, err)

	w := doGet(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuthRequiredRejectsMissingAndMalformed(t *testing.T) {
	r := authTestRouter(testJWTConfig())

	w := doGet(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/whoami", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	other := &config.JWTConfig{AccessSecret: "other-secret", AccessExpiry: time.Hour, Issuer: "courtside"}
	r := authTestRouter(cfg)

	token, err := auth.GenerateAccessToken(other, 42, "a@b.c", domain.RoleUser)
	require.NoError(t, err)

	w := doGet(r, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := testJWTConfig()
	r := authTestRouter(cfg)

	userToken, err := auth.GenerateAccessToken(cfg, 1, "u@b.c", domain.RoleUser)
	require.NoError(t, err)
	adminToken, err := auth.GenerateAccessToken(cfg, 2, "a@b.c", domain.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin", adminToken).Code)
}
