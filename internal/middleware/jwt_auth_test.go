package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0, "username": GetUsername(c)})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testJWTConfig() *JWTConfig {
	cfg := DefaultJWTConfig()
	cfg.SecretKey = "jwt-test-secret-0123456789abcdef"
	return cfg
}

func TestJWTAuth(t *testing.T) {
	SetJWTConfig(testJWTConfig())
	r := setupAuthRouter()

	access, refresh, err := GenerateTokenPair("admin")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"缺少 Header", "", http.StatusUnauthorized},
		{"格式错误", "Token " + access, http.StatusUnauthorized},
		{"无效 Token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"Refresh Token 不可访问", "Bearer " + refresh, http.StatusUnauthorized},
		{"正常访问", "Bearer " + access, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(r, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	w := doAuthRequest(r, "Bearer "+access)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
}

func TestParseToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Minute
	SetJWTConfig(cfg)
	defer SetJWTConfig(DefaultJWTConfig())

	access, _, err := GenerateTokenPair("admin")
	assert.NoError(t, err)

	_, err = ParseToken(access)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	SetJWTConfig(testJWTConfig())
	access, _, _ := GenerateTokenPair("admin")

	cfg := testJWTConfig()
	cfg.SecretKey = "other"
	SetJWTConfig(cfg)
	defer SetJWTConfig(DefaultJWTConfig())

	_, err := ParseToken(access)
	assert.Error(t, err)
}

func TestNoSigningKey(t *testing.T) {
	SetJWTConfig(testJWTConfig())
	access, _, err := GenerateTokenPair("admin")
	assert.NoError(t, err)

	SetJWTConfig(DefaultJWTConfig())
	defer SetJWTConfig(DefaultJWTConfig())

	_, _, err = GenerateTokenPair("admin")
	assert.ErrorIs(t, err, ErrNoSigningKey)

	_, err = ParseToken(access)
	assert.ErrorIs(t, err, ErrNoSigningKey)

	w := doAuthRequest(setupAuthRouter(), "Bearer "+access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
