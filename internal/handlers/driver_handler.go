package handlers

import (
	"log"
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/services"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DriverGetProfile возвращает профиль текущего водителя с документами
func DriverGetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var driver models.Driver
		if err := db.Preload("Documents").First(&driver, userID).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении профиля водителя")
			return
		}

		resp := driver.ToResponse()
		if driver.HasVerifiedDocument() {
			resp.DocumentsStatus = "verified"
		}

		utils.RespondSuccess(c, http.StatusOK, resp)
	}
}

// DriverUpdateProfile обновляет данные текущего водителя
func DriverUpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req struct {
			FirstName       string `json:"firstName"`
			LastName        string `json:"lastName"`
			PhotoUrl        string `json:"photoUrl"`
			VehicleType     string `json:"vehicleType"`
			VehicleNumber   string `json:"vehicleNumber"`
			VehicleCapacity string `json:"vehicleCapacity"`
			MaxWeightKg     string `json:"maxWeightKg"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var driver models.Driver
		if err := db.First(&driver, userID).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении профиля водителя")
			return
		}

		if req.FirstName != "" {
			driver.FirstName = req.FirstName
		}
		if req.LastName != "" {
			driver.LastName = req.LastName
		}
		if req.PhotoUrl != "" {
			driver.PhotoUrl = req.PhotoUrl
		}
		if req.VehicleType != "" {
			driver.VehicleType = req.VehicleType
		}
		if req.VehicleNumber != "" {
			driver.VehicleNumber = req.VehicleNumber
		}
		if req.VehicleCapacity != "" {
			driver.VehicleCapacity = req.VehicleCapacity
		}
		if req.MaxWeightKg != "" {
			driver.MaxWeightKg = req.MaxWeightKg
		}

		if err := db.Save(&driver).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении профиля водителя")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, driver.ToResponse())
	}
}

// DriverUpdateAvailability переключает статус доступности водителя
func DriverUpdateAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req struct {
			AvailabilityStatus models.DriverAvailability `json:"availability_status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		if req.AvailabilityStatus != models.DriverOnline && req.AvailabilityStatus != models.DriverOffline {
			utils.RespondFail(c, http.StatusBadRequest, "Недопустимый статус доступности")
			return
		}

		if err := db.Model(&models.Driver{}).Where("id = ?", userID).
			Update("availability_status", req.AvailabilityStatus).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении статуса")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{"availability_status": req.AvailabilityStatus})
	}
}

// AdminListDrivers возвращает всех водителей (для администратора)
func AdminListDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.Driver
		if err := db.Preload("Documents").Order("id").Find(&drivers).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении списка водителей")
			return
		}

		response := make([]models.DriverResponse, 0, len(drivers))
		for _, driver := range drivers {
			resp := driver.ToResponse()
			if driver.HasVerifiedDocument() {
				resp.DocumentsStatus = "verified"
			}
			response = append(response, resp)
		}

		utils.RespondSuccess(c, http.StatusOK, response)
	}
}

// AdminFindAvailableDrivers подбирает водителей под тип транспорта заявки
func AdminFindAvailableDrivers(drivers *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleType := c.Query("vehicleType")
		if vehicleType == "" {
			utils.RespondFail(c, http.StatusBadRequest, "Не указан тип транспорта")
			return
		}

		available, err := drivers.FindAvailable(c.Request.Context(), vehicleType)
		if err != nil {
			utils.RespondError(c, err, "Ошибка при подборе водителей")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, available)
	}
}

// AdminDeleteDriver удаляет водителя вместе с его транспортом и документами.
// Выполняется в транзакции: при любой ошибке изменения откатываются.
func AdminDeleteDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("id")

		var driver models.Driver
		if err := db.First(&driver, driverID).Error; err != nil {
			utils.RespondError(c, err, "Водитель не найден")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("driver_id = ?", driver.ID).Delete(&models.Vehicle{}).Error; err != nil {
				return err
			}
			if err := tx.Where("driver_id = ?", driver.ID).Delete(&models.DriverDocument{}).Error; err != nil {
				return err
			}
			return tx.Delete(&driver).Error
		})
		if err != nil {
			utils.RespondError(c, err, "Ошибка при удалении водителя")
			return
		}

		log.Printf("Водитель %d удален администратором", driver.ID)
		c.Status(http.StatusNoContent)
	}
}
