// middleware/auth_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascending-llc/mcp-gateway-registry-sub004/middleware"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/util"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims middleware.IdentityClaims, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func identityClaims(scopes, groups []string) middleware.IdentityClaims {
	return middleware.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scopes: scopes,
		Groups: groups,
	}
}

func authRouter() (*gin.Engine, *[]string, *string) {
	gin.SetMode(gin.TestMode)

	var gotScopes []string
	var gotUser string

	r := gin.New()
	r.Use(middleware.Auth(testSecret))
	r.GET("/probe", func(c *gin.Context) {
		gotScopes = util.GetIdentityScopes(c)
		gotUser = util.GetUserIDFromContext(c)
		c.Status(http.StatusOK)
	})
	return r, &gotScopes, &gotUser
}

func TestAuth_ValidToken(t *testing.T) {
	r, gotScopes, gotUser := authRouter()
	token := signToken(t, identityClaims([]string{"mcp-registry-admin"}, []string{"registry-admins"}), testSecret)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"mcp-registry-admin", "registry-admins"}, *gotScopes)
	assert.Equal(t, "user-1", *gotUser)
}

func TestAuth_SpaceDelimitedScopeClaim(t *testing.T) {
	r, gotScopes, _ := authRouter()

	claims := identityClaims(nil, []string{"registry-users"})
	claims.Scope = "mcp-registry-read mcp-registry-admin"
	token := signToken(t, claims, testSecret)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"mcp-registry-read", "mcp-registry-admin", "registry-users"}, *gotScopes)
}

func TestAuth_MissingToken(t *testing.T) {
	r, _, _ := authRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	r, _, _ := authRouter()
	token := signToken(t, identityClaims([]string{"x"}, nil), []byte("other-secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	r, _, _ := authRouter()

	claims := identityClaims([]string{"x"}, nil)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, claims, testSecret)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseIdentityToken_Errors(t *testing.T) {
	claims := identityClaims([]string{"x"}, nil)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, claims, testSecret)

	_, err := middleware.ParseIdentityToken(token, testSecret)
	assert.ErrorIs(t, err, middleware.ErrExpiredToken)

	_, err = middleware.ParseIdentityToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}
