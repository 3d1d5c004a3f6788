package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newCacheRouter(t *testing.T, rdb *redis.Client, hits *int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPCache(rdb, HTTPCacheOptions{TTL: time.Minute}))
	r.GET("/projects", func(c *gin.Context) {
		atomic.AddInt64(hits, 1)
		c.JSON(http.StatusOK, gin.H{"data": []string{"p1"}})
	})
	return r
}

func TestHTTPCacheServesSecondAnonymousGet(t *testing.T) {
	rdb := testRedis(t)
	var hits int64
	r := newCacheRouter(t, rdb, &hits)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("x-api-cache"))

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("x-api-cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))
}

func TestHTTPCacheSkipsAuthenticated(t *testing.T) {
	rdb := testRedis(t)
	var hits int64
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextKeyUserID, "user-1") })
	r.Use(HTTPCache(rdb, HTTPCacheOptions{TTL: time.Minute}))
	r.GET("/projects", func(c *gin.Context) {
		atomic.AddInt64(&hits, 1)
		c.JSON(http.StatusOK, gin.H{"data": []string{"p1"}})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("x-api-cache"))
	}
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestPurgeHTTPCache(t *testing.T) {
	rdb := testRedis(t)
	var hits int64
	r := newCacheRouter(t, rdb, &hits)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)

	deleted, err := PurgeHTTPCache(context.Background(), rdb)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	assert.Empty(t, w.Header().Get("x-api-cache"))
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestShouldSkipCachePath(t *testing.T) {
	patterns := []string{"/api/v1/user", "/api/v1/files/*"}
	assert.True(t, shouldSkipCachePath("/api/v1/user", patterns))
	assert.True(t, shouldSkipCachePath("/api/v1/files/upload", patterns))
	assert.False(t, shouldSkipCachePath("/api/v1/projects", patterns))
}
