package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tradebook/internal/middleware"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var seen string
	r.GET("/test", func(c *gin.Context) {
		seen = c.GetString(middleware.ContextKeyRequestID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestID_EchoesCaller(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "till-7")
	r.ServeHTTP(w, req)

	assert.Equal(t, "till-7", w.Header().Get("X-Request-ID"))
}

func TestLogger_WritesRequestLine(t *testing.T) {
	buf := captureLog(t)
	userID := uuid.New()

	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}, middleware.Logger())
	r.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders", http.NoBody)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	line := buf.String()
	assert.Contains(t, line, "[req-1] GET /api/v1/orders 200")
	assert.Contains(t, line, "user="+userID.String())
}

func TestLogger_SkipsHealthyProbes(t *testing.T) {
	buf := captureLog(t)

	r := gin.New()
	r.Use(middleware.Logger())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for _, path := range []string{"/healthz", "/readyz"} {
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.NotContains(t, buf.String(), "/healthz")
	assert.Contains(t, buf.String(), "/readyz 503 ")
	assert.Contains(t, buf.String(), "user=-")
}
