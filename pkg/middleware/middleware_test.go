package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("requestID"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, w.Body.String(), 10)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}

func TestBodySizeLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/", BodySizeLimiter(8), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("way too large body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimiterMiddleware(testContext(t), RateLimiterConfig{RequestsPerSecond: 1, Burst: 2}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimiterMiddleware(testContext(t), RateLimiterConfig{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterCleanupStops(t *testing.T) {
	r := &rateLimiter{
		visitors: map[string]*visitor{"10.0.0.1": {lastSeen: time.Now().Add(-time.Hour)}},
		cfg:      RateLimiterConfig{CleanupInterval: time.Millisecond, TTL: time.Minute},
	}

	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan struct{})
	go func() {
		r.cleanup(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.visitors) == 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup kept running after the context was cancelled")
	}
}

func TestTurnstileDisabledPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/", NewTurnstileMiddleware(TurnstileConfig{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTurnstile(t *testing.T) {
	siteverify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("secret") != "shh" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.PostForm.Get("response") {
		case "good":
			w.Write([]byte(`{"success":true}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
		}
	}))
	defer siteverify.Close()

	r := gin.New()
	r.POST("/", NewTurnstileMiddleware(TurnstileConfig{
		Enabled:   true,
		Secret:    "shh",
		VerifyURL: siteverify.URL,
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if token != "" {
			req.Header.Set("TurnstileToken", token)
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("good"))
	assert.Equal(t, http.StatusUnauthorized, send("bad"))
	assert.Equal(t, http.StatusServiceUnavailable, send("broken"))
	assert.Equal(t, http.StatusBadRequest, send(""))
}

// testContext returns a context that is cancelled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
