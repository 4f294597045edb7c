package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task — отложенная задача, выполняемая вне пути обработки запроса
type Task func(ctx context.Context)

// Outbox — внутрипроцессная очередь отложенных задач. Делает контракт
// "best-effort, не блокируя запрос" явным компонентом: обработчики ставят
// задачи в очередь и сразу отвечают клиенту, воркеры выполняют их следом.
type Outbox struct {
	tasks   chan Task
	wg      sync.WaitGroup
	once    sync.Once
	timeout time.Duration
}

func NewOutbox(buffer int) *Outbox {
	if buffer <= 0 {
		buffer = 256
	}
	return &Outbox{
		tasks:   make(chan Task, buffer),
		timeout: 30 * time.Second,
	}
}

// Start запускает воркеры очереди
func (o *Outbox) Start(workers int) {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for task := range o.tasks {
				ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
				task(ctx)
				cancel()
			}
		}()
	}
}

// Enqueue ставит задачу в очередь без блокировки. При переполненной очереди
// задача отбрасывается с записью в лог — очередь не должна тормозить запросы.
func (o *Outbox) Enqueue(task Task) bool {
	select {
	case o.tasks <- task:
		return true
	default:
		log.Printf("Очередь отложенных задач переполнена, задача отброшена")
		return false
	}
}

// Stop закрывает очередь и дожидается завершения начатых задач
func (o *Outbox) Stop() {
	o.once.Do(func() {
		close(o.tasks)
	})
	o.wg.Wait()
}
