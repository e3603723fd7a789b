package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCooldownLimiter_Check(t *testing.T) {
	l := NewCooldownLimiter()

	assert.True(t, l.Check("push", time.Minute).Allowed)

	res := l.Check("push", time.Minute)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// 不同 key 互不影响
	assert.True(t, l.Check("login", time.Minute).Allowed)

	// 间隔为 0 时总是允许
	assert.True(t, l.Check("push", 0).Allowed)
}

func TestCooldown_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/push", Cooldown(NewCooldownLimiter(), "push", time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/push", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/push", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after")
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "操作过于频繁，请 5 秒后重试", formatRetryMessage(5*time.Second))
	assert.Equal(t, "操作过于频繁，请 2 分钟后重试", formatRetryMessage(2*time.Minute))
	assert.Equal(t, "操作过于频繁，请 1 分 30 秒后重试", formatRetryMessage(90*time.Second))
}
