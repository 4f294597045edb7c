package handlers

import (
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VehicleListMine возвращает транспорт текущего водителя
func VehicleListMine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var vehicles []models.Vehicle
		if err := db.Where("driver_id = ?", userID).Order("id").Find(&vehicles).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении транспорта")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, vehicles)
	}
}

// AdminListVehicles возвращает весь транспорт (для администратора)
func AdminListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("id")
		if driverID := c.Query("driverId"); driverID != "" {
			query = query.Where("driver_id = ?", driverID)
		}

		var vehicles []models.Vehicle
		if err := query.Find(&vehicles).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении транспорта")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, vehicles)
	}
}
