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

type VehicleTypeRequest struct {
	VehicleType string  `json:"vehicleType" binding:"required"`
	Label       string  `json:"label" binding:"required"`
	Capacity    int     `json:"capacity"`
	BasePrice   float64 `json:"basePrice"`
	PricePerKm  float64 `json:"pricePerKm"`
	IsActive    *bool   `json:"isActive"`
	IconKey     string  `json:"iconKey"`
}

// VehicleTypeList возвращает каталог типов транспорта
func VehicleTypeList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("id")
		if c.Query("all") != "true" {
			query = query.Where("is_active = ?", true)
		}

		var mappings []models.VehicleTypeMapping
		if err := query.Find(&mappings).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении каталога")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, mappings)
	}
}

// VehicleTypeCreate добавляет запись каталога. Слаг нормализуется.
func VehicleTypeCreate(db *gorm.DB, types *services.VehicleTypeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VehicleTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		mapping := models.VehicleTypeMapping{
			VehicleType: models.NormalizeVehicleTypeSlug(req.VehicleType),
			Label:       req.Label,
			Capacity:    req.Capacity,
			BasePrice:   req.BasePrice,
			PricePerKm:  req.PricePerKm,
			IsActive:    true,
			IconKey:     req.IconKey,
		}
		if req.IsActive != nil {
			mapping.IsActive = *req.IsActive
		}

		if err := db.Create(&mapping).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				utils.RespondFail(c, http.StatusConflict, "Тип транспорта с таким слагом уже существует")
				return
			}
			utils.RespondError(c, err, "Ошибка при создании типа транспорта")
			return
		}

		types.Invalidate()
		log.Printf("Создан тип транспорта %s (%s)", mapping.VehicleType, mapping.Label)
		utils.RespondSuccess(c, http.StatusCreated, mapping)
	}
}

// VehicleTypeUpdate обновляет запись каталога
func VehicleTypeUpdate(db *gorm.DB, types *services.VehicleTypeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VehicleTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var mapping models.VehicleTypeMapping
		if err := db.First(&mapping, c.Param("id")).Error; err != nil {
			utils.RespondError(c, err, "Тип транспорта не найден")
			return
		}

		mapping.VehicleType = models.NormalizeVehicleTypeSlug(req.VehicleType)
		mapping.Label = req.Label
		mapping.Capacity = req.Capacity
		mapping.BasePrice = req.BasePrice
		mapping.PricePerKm = req.PricePerKm
		mapping.IconKey = req.IconKey
		if req.IsActive != nil {
			mapping.IsActive = *req.IsActive
		}

		if err := db.Save(&mapping).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				utils.RespondFail(c, http.StatusConflict, "Тип транспорта с таким слагом уже существует")
				return
			}
			utils.RespondError(c, err, "Ошибка при обновлении типа транспорта")
			return
		}

		types.Invalidate()
		utils.RespondSuccess(c, http.StatusOK, mapping)
	}
}

// VehicleTypeDelete удаляет запись каталога. Удаление блокируется,
// пока на тип ссылается хотя бы одна заявка.
func VehicleTypeDelete(db *gorm.DB, types *services.VehicleTypeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var mapping models.VehicleTypeMapping
		if err := db.First(&mapping, c.Param("id")).Error; err != nil {
			utils.RespondError(c, err, "Тип транспорта не найден")
			return
		}

		var count int64
		err := db.Model(&models.Shipment{}).
			Where("LOWER(vehicle_type) = LOWER(?) OR LOWER(vehicle_type) = LOWER(?)", mapping.VehicleType, mapping.Label).
			Count(&count).Error
		if err != nil {
			utils.RespondError(c, err, "Ошибка при проверке использования типа")
			return
		}
		if count > 0 {
			utils.RespondFail(c, http.StatusConflict, "Тип транспорта используется заявками и не может быть удален")
			return
		}

		if err := db.Delete(&mapping).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при удалении типа транспорта")
			return
		}

		types.Invalidate()
		log.Printf("Удален тип транспорта %s", mapping.VehicleType)
		c.Status(http.StatusNoContent)
	}
}
