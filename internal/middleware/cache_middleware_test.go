package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"logistics-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	value     []byte
	expiresAt time.Time
}

// fakeCache — кэш ответов в памяти для тестов middleware, соблюдает TTL
type fakeCache struct {
	mu   sync.Mutex
	data map[string]fakeEntry
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]fakeEntry)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.data, key)
		return nil, false
	}
	return entry.value, true
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := fakeEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.data[key] = entry
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func staticKey(key string) middleware.CacheKeyFunc {
	return func(c *gin.Context) string { return key }
}

func TestCachePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Промах вызывает обработчик и заполняет кэш", func(t *testing.T) {
		cache := newFakeCache()
		handlerCalls := 0

		r := gin.New()
		r.GET("/data", middleware.CachePage(cache, time.Minute, staticKey("logistics:test:1")), func(c *gin.Context) {
			handlerCalls++
			c.JSON(http.StatusOK, gin.H{"value": 42})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.Equal(t, 1, handlerCalls)

		// Заполнение кэша асинхронное
		require.Eventually(t, func() bool {
			return cache.has("logistics:test:1")
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Попадание отдает сохраненный ответ без вызова обработчика", func(t *testing.T) {
		cache := newFakeCache()
		cache.Set(context.Background(), "logistics:test:1", []byte(`{"value":42}`), time.Minute)
		handlerCalls := 0

		r := gin.New()
		r.GET("/data", middleware.CachePage(cache, time.Minute, staticKey("logistics:test:1")), func(c *gin.Context) {
			handlerCalls++
			c.JSON(http.StatusOK, gin.H{"value": 0})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
		assert.JSONEq(t, `{"value":42}`, w.Body.String())
		assert.Equal(t, 0, handlerCalls)
	})

	t.Run("После истечения TTL запрос снова идет в обработчик", func(t *testing.T) {
		cache := newFakeCache()
		handlerCalls := 0

		r := gin.New()
		r.GET("/data", middleware.CachePage(cache, 100*time.Millisecond, staticKey("logistics:test:ttl")), func(c *gin.Context) {
			handlerCalls++
			c.JSON(http.StatusOK, gin.H{"value": handlerCalls})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

		require.Eventually(t, func() bool {
			return cache.has("logistics:test:ttl")
		}, time.Second, 10*time.Millisecond)

		// До истечения TTL — попадание
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
		assert.Equal(t, 1, handlerCalls)

		// После истечения — снова промах и вызов обработчика
		time.Sleep(150 * time.Millisecond)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.Equal(t, 2, handlerCalls)
	})

	t.Run("Ошибочный ответ не кэшируется", func(t *testing.T) {
		cache := newFakeCache()

		r := gin.New()
		r.GET("/data", middleware.CachePage(cache, time.Minute, staticKey("logistics:test:err")), func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// Даем асинхронной записи шанс случиться, ее быть не должно
		time.Sleep(50 * time.Millisecond)
		assert.False(t, cache.has("logistics:test:err"))
	})

	t.Run("Пустой ключ отключает кэширование", func(t *testing.T) {
		cache := newFakeCache()
		handlerCalls := 0

		r := gin.New()
		r.GET("/data", middleware.CachePage(cache, time.Minute, staticKey("")), func(c *gin.Context) {
			handlerCalls++
			c.JSON(http.StatusOK, gin.H{"value": 1})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/data", nil))

		assert.Empty(t, w.Header().Get("X-Cache"))
		assert.Equal(t, 2, handlerCalls)
	})
}

func TestInvalidateCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	invalidation := func(c *gin.Context) ([]string, []string) {
		return []string{"logistics:profile:user:1"}, []string{"logistics:shipments:*"}
	}

	t.Run("Успешная мутация удаляет ключи и шаблоны", func(t *testing.T) {
		cache := newFakeCache()
		ctx := context.Background()
		cache.Set(ctx, "logistics:profile:user:1", []byte("x"), time.Minute)
		cache.Set(ctx, "logistics:shipments:user:1", []byte("x"), time.Minute)
		cache.Set(ctx, "logistics:shipments:driver:2", []byte("x"), time.Minute)
		cache.Set(ctx, "logistics:catalog:vehicle_types:all", []byte("x"), time.Minute)

		r := gin.New()
		r.PUT("/mutate", middleware.InvalidateCache(cache, invalidation), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "success"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/mutate", nil))
		require.Equal(t, http.StatusOK, w.Code)

		require.Eventually(t, func() bool {
			return !cache.has("logistics:profile:user:1") &&
				!cache.has("logistics:shipments:user:1") &&
				!cache.has("logistics:shipments:driver:2")
		}, time.Second, 10*time.Millisecond)

		// Посторонние ключи не затрагиваются
		assert.True(t, cache.has("logistics:catalog:vehicle_types:all"))
	})

	t.Run("Неуспешная мутация не трогает кэш", func(t *testing.T) {
		cache := newFakeCache()
		cache.Set(context.Background(), "logistics:profile:user:1", []byte("x"), time.Minute)

		r := gin.New()
		r.PUT("/mutate", middleware.InvalidateCache(cache, invalidation), func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"status": "fail"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/mutate", nil))
		require.Equal(t, http.StatusConflict, w.Code)

		time.Sleep(50 * time.Millisecond)
		assert.True(t, cache.has("logistics:profile:user:1"))
	})
}
