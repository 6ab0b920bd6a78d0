package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sealgate/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.POST("/v1/external", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestOriginGate(t *testing.T) {
	allowed := []string{"https://sealshare.app", "http://localhost:3000"}
	router := newTestRouter(OriginGate(allowed))

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{"first allowed origin", "https://sealshare.app", http.StatusOK},
		{"second allowed origin", "http://localhost:3000", http.StatusOK},
		{"unknown origin", "https://evil.example", http.StatusForbidden},
		{"missing origin", "", http.StatusForbidden},
		{"scheme mismatch", "http://sealshare.app", http.StatusForbidden},
		{"subdomain of allowed origin", "https://sub.sealshare.app", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/external", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.RateLimiting.Enabled = false

	router := newTestRouter(NewRateLimiter(cfg).Handler())

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/external", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_EnforcesBurst(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.RateLimiting.Enabled = true
	cfg.Security.RateLimiting.RequestsPerMin = 60
	cfg.Security.RateLimiting.Burst = 3

	router := newTestRouter(NewRateLimiter(cfg).Handler())

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/external", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	// Burst of 3, then rejections
	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusOK, statuses[2])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3])
	assert.Equal(t, http.StatusTooManyRequests, statuses[4])
}

func TestRateLimiter_GetCurrentLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.RateLimiting.Enabled = true
	cfg.Security.RateLimiting.RequestsPerMin = 120
	cfg.Security.RateLimiting.Burst = 10

	rl := NewRateLimiter(cfg)
	perMin, burst, enabled := rl.GetCurrentLimit()
	assert.Equal(t, 120, perMin)
	assert.Equal(t, 10, burst)
	assert.True(t, enabled)
}
