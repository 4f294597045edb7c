package handlers

import (
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddressRequest struct {
	Label   string `json:"label"`
	Street  string `json:"street" binding:"required"`
	City    string `json:"city"`
	Comment string `json:"comment"`
}

// AddressList возвращает адреса текущего пользователя
func AddressList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Order("id").Find(&addresses).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении адресов")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, addresses)
	}
}

// AddressCreate сохраняет новый адрес пользователя
func AddressCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		address := models.Address{
			UserID:  userID.(uint),
			Label:   req.Label,
			Street:  req.Street,
			City:    req.City,
			Comment: req.Comment,
		}

		if err := db.Create(&address).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при сохранении адреса")
			return
		}

		utils.RespondSuccess(c, http.StatusCreated, address)
	}
}

// AddressUpdate обновляет адрес пользователя
func AddressUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var address models.Address
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&address).Error; err != nil {
			utils.RespondError(c, err, "Адрес не найден")
			return
		}

		address.Label = req.Label
		address.Street = req.Street
		address.City = req.City
		address.Comment = req.Comment

		if err := db.Save(&address).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении адреса")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, address)
	}
}

// AddressDelete удаляет адрес пользователя
func AddressDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		result := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.Address{})
		if result.Error != nil {
			utils.RespondError(c, result.Error, "Ошибка при удалении адреса")
			return
		}
		if result.RowsAffected == 0 {
			utils.RespondFail(c, http.StatusNotFound, "Адрес не найден")
			return
		}

		c.Status(http.StatusNoContent)
	}
}
