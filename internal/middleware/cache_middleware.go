package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"logistics-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Время жизни кэша по типам данных: быстро меняющиеся списки заявок
// живут меньше, чем медленный каталог и документы
const (
	CacheTTLShipments = 180 * time.Second
	CacheTTLProfile   = 300 * time.Second
	CacheTTLDocuments = 600 * time.Second
	CacheTTLCatalog   = 600 * time.Second
)

// CacheKeyFunc строит ключ кэша по запросу. Пустой ключ отключает кэширование.
type CacheKeyFunc func(c *gin.Context) string

// ShipmentsKey — ключ списка заявок принципала
func ShipmentsKey(c *gin.Context) string {
	role, _ := c.Get("role")
	userID, _ := c.Get("user_id")
	return fmt.Sprintf("%s:shipments:%v:%v", services.CacheKeyPrefix, role, userID)
}

// TrackingKey — ключ публичного отслеживания заявки
func TrackingKey(c *gin.Context) string {
	return fmt.Sprintf("%s:shipments:track:%s", services.CacheKeyPrefix, c.Param("trackingNumber"))
}

// ProfileKey — ключ профиля принципала
func ProfileKey(c *gin.Context) string {
	role, _ := c.Get("role")
	userID, _ := c.Get("user_id")
	return fmt.Sprintf("%s:profile:%v:%v", services.CacheKeyPrefix, role, userID)
}

// DocumentsKey — ключ документов водителя
func DocumentsKey(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	return fmt.Sprintf("%s:documents:driver:%v", services.CacheKeyPrefix, userID)
}

// CatalogKey — ключ каталога типов транспорта
func CatalogKey(c *gin.Context) string {
	return fmt.Sprintf("%s:catalog:vehicle_types:all", services.CacheKeyPrefix)
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage — кэширование GET ответов по схеме cache-aside. Попадание отдает
// сохраненный JSON без вызова обработчика; промах пропускает запрос дальше и
// после успешного ответа асинхронно сохраняет тело в кэш — заполнение кэша
// не лежит на критическом пути запроса.
func CachePage(cache services.ResponseCache, ttl time.Duration, keyFn CacheKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		if body, ok := cache.Get(c.Request.Context(), key); ok {
			CacheHits.Inc()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		CacheMisses.Inc()
		c.Header("X-Cache", "MISS")

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			payload := make([]byte, writer.body.Len())
			copy(payload, writer.body.Bytes())
			// Запрос уже отвечен, контекст запроса использовать нельзя
			go cache.Set(context.Background(), key, payload, ttl)
		}
	}
}

// InvalidationFunc возвращает точные ключи и glob-шаблоны для удаления
type InvalidationFunc func(c *gin.Context) (keys []string, patterns []string)

// InvalidateCache удаляет ключи кэша после успешной мутации (2xx).
// Удаление асинхронное: клиент может получить ответ чуть раньше, чем кэш
// фактически инвалидирован (окно меньше секунды).
func InvalidateCache(cache services.ResponseCache, fn InvalidationFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status > 299 {
			return
		}

		keys, patterns := fn(c)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if len(keys) > 0 {
				cache.Delete(ctx, keys...)
			}
			for _, pattern := range patterns {
				cache.DeletePattern(ctx, pattern)
			}
		}()
	}
}
