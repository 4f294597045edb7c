package websocket

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Константы для типов сообщений WebSocket
const (
	ShipmentStatusUpdateType   = "SHIPMENT_STATUS_UPDATE"
	ShipmentAssignedUpdateType = "SHIPMENT_ASSIGNED"
)

// Message представляет формат сообщения WebSocket
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub управляет подписками на обновления заявок по номеру отслеживания
type Hub struct {
	subscribers map[string]map[*websocket.Conn]bool
	mutex       sync.RWMutex
}

var hub = &Hub{
	subscribers: make(map[string]map[*websocket.Conn]bool),
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любых источников
	},
}

func (h *Hub) subscribe(trackingNumber string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.subscribers[trackingNumber]; !ok {
		h.subscribers[trackingNumber] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[trackingNumber][conn] = true
}

func (h *Hub) unsubscribe(trackingNumber string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if conns, ok := h.subscribers[trackingNumber]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, trackingNumber)
		}
	}
	conn.Close()
}

// Broadcast рассылает обновление всем подписчикам заявки
func Broadcast(trackingNumber, messageType string, payload interface{}) {
	hub.mutex.RLock()
	conns := make([]*websocket.Conn, 0)
	for conn := range hub.subscribers[trackingNumber] {
		conns = append(conns, conn)
	}
	hub.mutex.RUnlock()

	if len(conns) == 0 {
		return
	}

	message := Message{Type: messageType, Payload: payload}
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(message); err != nil {
			log.Printf("Ошибка при отправке сообщения WebSocket: %v", err)
			hub.unsubscribe(trackingNumber, conn)
		}
	}
}

// Handler обновляет соединение до WebSocket и подписывает клиента на заявку.
// Номер отслеживания передается query-параметром trackingNumber.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		trackingNumber := c.Query("trackingNumber")
		if trackingNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Не указан номер отслеживания"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Ошибка при обновлении соединения до WebSocket: %v", err)
			return
		}

		hub.subscribe(trackingNumber, conn)
		log.Printf("Новая подписка на заявку %s", trackingNumber)

		// Читаем соединение, чтобы отследить закрытие клиентом
		go func() {
			defer hub.unsubscribe(trackingNumber, conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
