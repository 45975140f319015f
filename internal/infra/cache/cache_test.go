package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLeaseIsExclusive(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)

	a := NewLease(rdb, "lock:test", time.Minute)
	b := NewLease(rdb, "lock:test", time.Minute)

	release, err := a.Acquire(ctx)
	require.NoError(t, err)

	_, err = b.Acquire(ctx)
	assert.ErrorIs(t, err, ErrLeaseHeld)

	release(ctx)
	assert.False(t, mr.Exists("lock:test"))

	release2, err := b.Acquire(ctx)
	require.NoError(t, err)
	release2(ctx)
}

func TestLeaseReleaseKeepsForeignToken(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)

	l := NewLease(rdb, "lock:test", time.Second)
	release, err := l.Acquire(ctx)
	require.NoError(t, err)

	// Lease expired and someone else took it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:test", "other"))

	release(ctx)
	v, err := mr.Get("lock:test")
	require.NoError(t, err)
	assert.Equal(t, "other", v)
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, rdb := newRedis(t)

	rl := NewRateLimiter(rdb, 2, time.Minute, "test")
	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, rdb := newRedis(t)
	mr.Close()

	rl := NewRateLimiter(rdb, 1, time.Minute, "test")
	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
