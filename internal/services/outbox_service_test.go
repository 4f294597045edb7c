package services_test

import (
	"context"
	"sync/atomic"
	"testing"

	"logistics-backend/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestOutbox(t *testing.T) {
	t.Run("Задачи выполняются воркерами до остановки", func(t *testing.T) {
		outbox := services.NewOutbox(16)
		outbox.Start(2)

		var executed int64
		for i := 0; i < 10; i++ {
			ok := outbox.Enqueue(func(ctx context.Context) {
				atomic.AddInt64(&executed, 1)
			})
			assert.True(t, ok)
		}

		outbox.Stop()
		assert.Equal(t, int64(10), atomic.LoadInt64(&executed))
	})

	t.Run("Переполненная очередь отбрасывает задачу", func(t *testing.T) {
		outbox := services.NewOutbox(1)
		// Воркеры не запущены, буфер вмещает одну задачу

		assert.True(t, outbox.Enqueue(func(ctx context.Context) {}))
		assert.False(t, outbox.Enqueue(func(ctx context.Context) {}))
	})

	t.Run("Повторный Stop безопасен", func(t *testing.T) {
		outbox := services.NewOutbox(4)
		outbox.Start(1)
		outbox.Stop()
		outbox.Stop()
	})
}
