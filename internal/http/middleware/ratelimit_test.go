package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func serve(mw echo.MiddlewareFunc) int {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec.Code
}

func TestRateLimitDisabled(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(RateLimitMiddleware(RateLimitConfig{DefaultRPS: 1})))

	rds := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rds.Close()
	assert.Equal(t, http.StatusOK, serve(RateLimitMiddleware(RateLimitConfig{Redis: rds})))
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	rds := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rds.Close()

	mw := RateLimitMiddleware(RateLimitConfig{Redis: rds, DefaultRPS: 1})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(mw))
	}
}
