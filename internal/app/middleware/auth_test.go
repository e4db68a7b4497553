package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samurai/internal/app/config"
	"samurai/internal/app/ds"
	"samurai/internal/app/redis"
	"samurai/internal/app/role"
)

const testSecret = "test-secret"

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Token:         testSecret,
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}

	return NewAuthMiddleware(redisClient, cfg), redisClient
}

func signToken(t *testing.T, userID uint, userRole role.Role) string {
	t.Helper()

	now := time.Now()
	claims := &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		},
		UserID: userID,
		Role:   userRole,
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tokenStr
}

func performRequest(am *AuthMiddleware, token string, roles ...role.Role) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)

	var captured *gin.Context
	router := gin.New()
	router.GET("/protected", am.WithAuthCheck(roles...), func(ctx *gin.Context) {
		captured = ctx.Copy()
		ctx.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, captured
}

func TestAuthValidToken(t *testing.T) {
	am, _ := newTestMiddleware(t)

	token := signToken(t, 42, role.Standard)
	w, captured := performRequest(am, token, role.Standard, role.Admin)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	userID, _ := captured.Get("userID")
	assert.Equal(t, uint(42), userID)
	userRole, _ := captured.Get("userRole")
	assert.Equal(t, role.Standard, userRole)
}

func TestAuthMissingHeader(t *testing.T) {
	am, _ := newTestMiddleware(t)

	w, _ := performRequest(am, "", role.Standard)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	am, _ := newTestMiddleware(t)

	w, _ := performRequest(am, "not-a-jwt", role.Standard)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthWrongSecret(t *testing.T) {
	am, _ := newTestMiddleware(t)

	claims := &ds.JWTClaims{UserID: 1, Role: role.Standard}
	claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	w, _ := performRequest(am, token, role.Standard)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthExpiredToken(t *testing.T) {
	am, _ := newTestMiddleware(t)

	claims := &ds.JWTClaims{UserID: 1, Role: role.Standard}
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w, _ := performRequest(am, token, role.Standard)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthBlacklistedToken(t *testing.T) {
	am, redisClient := newTestMiddleware(t)

	token := signToken(t, 1, role.Admin)

	// до logout токен работает
	w, _ := performRequest(am, token, role.Admin)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, redisClient.WriteJWTToBlacklist(req.Context(), token, time.Hour))

	// после — отклоняется
	w, _ = performRequest(am, token, role.Admin)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRoleMismatch(t *testing.T) {
	am, _ := newTestMiddleware(t)

	token := signToken(t, 7, role.Standard)
	w, _ := performRequest(am, token, role.Admin)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
