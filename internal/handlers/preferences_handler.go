package handlers

import (
	"errors"
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PreferencesGet возвращает настройки пользователя, создавая запись
// со значениями по умолчанию при первом обращении
func PreferencesGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var pref models.Preference
		err := db.Where("user_id = ?", userID).First(&pref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pref = models.Preference{
				UserID:      userID.(uint),
				Language:    "ru",
				PushEnabled: true,
				SMSEnabled:  true,
			}
			if err := db.Create(&pref).Error; err != nil {
				utils.RespondError(c, err, "Ошибка при создании настроек")
				return
			}
		} else if err != nil {
			utils.RespondError(c, err, "Ошибка при получении настроек")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, pref)
	}
}

// PreferencesUpdate обновляет настройки пользователя
func PreferencesUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req struct {
			Language    *string `json:"language"`
			PushEnabled *bool   `json:"pushEnabled"`
			SMSEnabled  *bool   `json:"smsEnabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var pref models.Preference
		err := db.Where("user_id = ?", userID).First(&pref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pref = models.Preference{UserID: userID.(uint), Language: "ru", PushEnabled: true, SMSEnabled: true}
		} else if err != nil {
			utils.RespondError(c, err, "Ошибка при получении настроек")
			return
		}

		if req.Language != nil {
			pref.Language = *req.Language
		}
		if req.PushEnabled != nil {
			pref.PushEnabled = *req.PushEnabled
		}
		if req.SMSEnabled != nil {
			pref.SMSEnabled = *req.SMSEnabled
		}

		if err := db.Save(&pref).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении настроек")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, pref)
	}
}
