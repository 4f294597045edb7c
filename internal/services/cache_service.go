package services

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResponseCache — кэш ответов API. Реализация не должна быть жесткой
// зависимостью: при недоступности бэкенда кэша все операции деградируют
// до промаха, корректность запросов не страдает.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePattern(ctx context.Context, pattern string)
}

// CacheKeyPrefix — общий префикс ключей кэша ответов
const CacheKeyPrefix = "logistics"

// RedisCache — реализация ResponseCache поверх Redis
type RedisCache struct {
	client  *redis.Client
	enabled bool
}

// NewRedisCache создает кэш ответов. При nil клиенте или выключенном
// CACHE_ENABLED кэширование отключено полностью.
func NewRedisCache(client *redis.Client) *RedisCache {
	enabled := client != nil && os.Getenv("CACHE_ENABLED") == "true"
	return &RedisCache{
		client:  client,
		enabled: enabled,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("Ошибка при чтении из кэша (ключ %s): %v", key, err)
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !c.enabled {
		return
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("Ошибка при записи в кэш (ключ %s): %v", key, err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if !c.enabled || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Ошибка при удалении ключей из кэша %v: %v", keys, err)
	}
}

// DeletePattern удаляет все ключи, подходящие под glob-шаблон.
// Используется SCAN, чтобы не блокировать Redis на больших наборах.
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) {
	if !c.enabled {
		return
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Printf("Ошибка при сканировании ключей по шаблону %s: %v", pattern, err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("Ошибка при удалении ключей по шаблону %s: %v", pattern, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
