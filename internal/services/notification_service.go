package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"logistics-backend/internal/models"

	"gorm.io/gorm"
)

const maxNotificationAttempts = 5

// PushSender — доставка push-уведомления на токен устройства
type PushSender interface {
	SendPushNotification(ctx context.Context, token, title, body string, data map[string]string) error
}

// NotificationService сохраняет уведомления в БД и отправляет их через
// очередь отложенных задач. Ошибки отправки никогда не доходят до вызывающего:
// неудачные записи подхватывает периодическая задача повтора.
type NotificationService struct {
	db     *gorm.DB
	sender PushSender
	outbox *Outbox
}

func NewNotificationService(db *gorm.DB, sender PushSender, outbox *Outbox) *NotificationService {
	return &NotificationService{db: db, sender: sender, outbox: outbox}
}

// Notify создает запись уведомления и ставит отправку в очередь
func (s *NotificationService) Notify(recipientRole string, recipientID uint, title, body string, data map[string]string) {
	dataJSON := ""
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			dataJSON = string(raw)
		}
	}

	notification := models.Notification{
		RecipientRole: recipientRole,
		RecipientID:   recipientID,
		Title:         title,
		Body:          body,
		Data:          dataJSON,
		Status:        models.NotificationStatusPending,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Ошибка при сохранении уведомления: %v", err)
		return
	}

	id := notification.ID
	s.outbox.Enqueue(func(ctx context.Context) {
		s.deliver(ctx, id)
	})
}

// NotifyDriverAssigned — уведомление водителю о назначении на заявку
func (s *NotificationService) NotifyDriverAssigned(driverID uint, shipment *models.Shipment) {
	s.Notify("driver", driverID,
		"Новая заявка",
		fmt.Sprintf("Вам назначена заявка %s: %s → %s", shipment.TrackingNumber, shipment.PickupAddress, shipment.DropoffAddress),
		map[string]string{"type": "shipment_assigned", "trackingNumber": shipment.TrackingNumber},
	)
}

// NotifyUserAssigned — уведомление заказчику о назначении водителя
func (s *NotificationService) NotifyUserAssigned(userID uint, shipment *models.Shipment) {
	s.Notify("user", userID,
		"Водитель назначен",
		fmt.Sprintf("На вашу заявку %s назначен водитель", shipment.TrackingNumber),
		map[string]string{"type": "driver_assigned", "trackingNumber": shipment.TrackingNumber},
	)
}

// deliver отправляет одно уведомление и обновляет его статус
func (s *NotificationService) deliver(ctx context.Context, notificationID uint) {
	var notification models.Notification
	if err := s.db.WithContext(ctx).First(&notification, notificationID).Error; err != nil {
		log.Printf("Уведомление %d не найдено: %v", notificationID, err)
		return
	}

	token, err := s.lookupToken(ctx, notification.RecipientRole, notification.RecipientID)
	if err != nil || token == "" {
		s.markFailed(&notification, fmt.Errorf("токен устройства недоступен: %v", err))
		return
	}

	var data map[string]string
	if notification.Data != "" {
		if err := json.Unmarshal([]byte(notification.Data), &data); err != nil {
			log.Printf("Ошибка при разборе данных уведомления %d: %v", notification.ID, err)
		}
	}

	if err := s.sender.SendPushNotification(ctx, token, notification.Title, notification.Body, data); err != nil {
		s.markFailed(&notification, err)
		return
	}

	now := time.Now()
	notification.Status = models.NotificationStatusSent
	notification.Attempts++
	notification.SentAt = &now
	if err := s.db.Save(&notification).Error; err != nil {
		log.Printf("Ошибка при обновлении статуса уведомления %d: %v", notification.ID, err)
	}
}

func (s *NotificationService) markFailed(notification *models.Notification, cause error) {
	log.Printf("Ошибка при отправке уведомления %d: %v", notification.ID, cause)
	notification.Status = models.NotificationStatusFailed
	notification.Attempts++
	if err := s.db.Save(notification).Error; err != nil {
		log.Printf("Ошибка при обновлении статуса уведомления %d: %v", notification.ID, err)
	}
}

func (s *NotificationService) lookupToken(ctx context.Context, role string, id uint) (string, error) {
	switch role {
	case "driver":
		var driver models.Driver
		if err := s.db.WithContext(ctx).Select("fcm_token").First(&driver, id).Error; err != nil {
			return "", err
		}
		return driver.FCMToken, nil
	default:
		var user models.User
		if err := s.db.WithContext(ctx).Select("fcm_token").First(&user, id).Error; err != nil {
			return "", err
		}
		return user.FCMToken, nil
	}
}

// RetrySweep повторяет отправку зависших и неудавшихся уведомлений.
// Запускается периодической задачей раз в 5 минут.
func (s *NotificationService) RetrySweep(ctx context.Context) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("status IN ? AND attempts < ? AND created_at < ?",
			[]models.NotificationStatus{models.NotificationStatusPending, models.NotificationStatusFailed},
			maxNotificationAttempts,
			time.Now().Add(-1*time.Minute)).
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		log.Printf("Ошибка при выборке уведомлений для повтора: %v", err)
		return
	}

	for _, n := range notifications {
		s.deliver(ctx, n.ID)
	}

	if len(notifications) > 0 {
		log.Printf("Повторная отправка уведомлений: обработано %d", len(notifications))
	}
}

// CleanupOld удаляет отправленные уведомления старше 30 дней.
// Запускается раз в сутки.
func (s *NotificationService) CleanupOld(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -30)
	result := s.db.WithContext(ctx).
		Where("created_at < ? AND status = ?", cutoff, models.NotificationStatusSent).
		Delete(&models.Notification{})
	if result.Error != nil {
		log.Printf("Ошибка при очистке старых уведомлений: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Удалено старых уведомлений: %d", result.RowsAffected)
	}
}
