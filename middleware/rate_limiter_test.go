package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.POST("/webhook/messages", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook/messages", nil)
		req.Header.Set("X-Forwarded-For", ip)
		r.ServeHTTP(w, req)
		return w.Code
	}

	// The burst budget absorbs 200 requests; the next one is rejected.
	for i := 0; i < 200; i++ {
		require.Equal(t, http.StatusOK, do("203.0.113.7"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.7"))

	// A different caller has its own budget.
	assert.Equal(t, http.StatusOK, do("203.0.113.8"))
}
