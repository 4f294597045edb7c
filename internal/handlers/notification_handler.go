package handlers

import (
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationList возвращает уведомления текущего принципала
func NotificationList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")

		var notifications []models.Notification
		err := db.Where("recipient_role = ? AND recipient_id = ?", role, userID).
			Order("created_at DESC").
			Limit(100).
			Find(&notifications).Error
		if err != nil {
			utils.RespondError(c, err, "Ошибка при получении уведомлений")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, notifications)
	}
}

// NotificationMarkRead помечает уведомление прочитанным
func NotificationMarkRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")

		result := db.Model(&models.Notification{}).
			Where("id = ? AND recipient_role = ? AND recipient_id = ?", c.Param("id"), role, userID).
			Update("is_read", true)
		if result.Error != nil {
			utils.RespondError(c, result.Error, "Ошибка при обновлении уведомления")
			return
		}
		if result.RowsAffected == 0 {
			utils.RespondFail(c, http.StatusNotFound, "Уведомление не найдено")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Уведомление прочитано"})
	}
}
