package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"logistics-backend/internal/models"
	"logistics-backend/internal/services"
	"logistics-backend/internal/utils"
	"logistics-backend/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateShipmentRequest struct {
	PickupAddress  string  `json:"pickupAddress" binding:"required"`
	DropoffAddress string  `json:"dropoffAddress" binding:"required"`
	VehicleType    string  `json:"vehicleType" binding:"required"`
	WeightKg       float64 `json:"weightKg"`
	Notes          string  `json:"notes"`
}

type CreateGuestShipmentRequest struct {
	GuestName      string  `json:"guestName" binding:"required"`
	GuestPhone     string  `json:"guestPhone" binding:"required,e164"`
	PickupAddress  string  `json:"pickupAddress" binding:"required"`
	DropoffAddress string  `json:"dropoffAddress" binding:"required"`
	VehicleType    string  `json:"vehicleType" binding:"required"`
	WeightKg       float64 `json:"weightKg"`
	Notes          string  `json:"notes"`
}

type AssignShipmentRequest struct {
	DriverID              uint       `json:"driverId" binding:"required"`
	VehicleID             *uint      `json:"vehicleId"`
	Notes                 string     `json:"notes"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
}

// ShipmentCreate создает заявку на доставку от авторизованного пользователя
func ShipmentCreate(db *gorm.DB, types *services.VehicleTypeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		if !types.IsKnownType(c.Request.Context(), req.VehicleType) {
			utils.RespondFail(c, http.StatusBadRequest, "Неизвестный тип транспорта")
			return
		}

		userID := c.GetUint("user_id")
		shipment := models.Shipment{
			TrackingNumber: services.GenerateTrackingNumber(),
			UserID:         &userID,
			PickupAddress:  req.PickupAddress,
			DropoffAddress: req.DropoffAddress,
			VehicleType:    req.VehicleType,
			WeightKg:       req.WeightKg,
			Notes:          req.Notes,
			Status:         models.ShipmentStatusPending,
		}

		if err := db.Create(&shipment).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при создании заявки")
			return
		}

		log.Printf("Создана заявка %s пользователем %d", shipment.TrackingNumber, userID)
		utils.RespondSuccess(c, http.StatusCreated, shipment.ToAuthenticatedView())
	}
}

// ShipmentCreateGuest создает заявку без авторизации
func ShipmentCreateGuest(db *gorm.DB, types *services.VehicleTypeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGuestShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		if !types.IsKnownType(c.Request.Context(), req.VehicleType) {
			utils.RespondFail(c, http.StatusBadRequest, "Неизвестный тип транспорта")
			return
		}

		shipment := models.Shipment{
			TrackingNumber: services.GenerateTrackingNumber(),
			GuestName:      req.GuestName,
			GuestPhone:     req.GuestPhone,
			PickupAddress:  req.PickupAddress,
			DropoffAddress: req.DropoffAddress,
			VehicleType:    req.VehicleType,
			WeightKg:       req.WeightKg,
			Notes:          req.Notes,
			Status:         models.ShipmentStatusPending,
		}

		if err := db.Create(&shipment).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при создании заявки")
			return
		}

		log.Printf("Создана гостевая заявка %s", shipment.TrackingNumber)
		utils.RespondSuccess(c, http.StatusCreated, shipment.ToGuestView())
	}
}

// ShipmentListMine возвращает заявки текущего пользователя
func ShipmentListMine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var shipments []models.Shipment
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&shipments).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении заявок")
			return
		}

		views := make([]models.AuthenticatedShipmentView, 0, len(shipments))
		for _, s := range shipments {
			views = append(views, s.ToAuthenticatedView())
		}

		utils.RespondSuccess(c, http.StatusOK, views)
	}
}

// canViewShipment решает, кто видит заявку: админ — любую, пользователь —
// только свою. Сравнивать id без учета роли нельзя: у водителя и пользователя
// числовые id из разных таблиц могут совпадать. Водители получают свои заявки
// через /driver/shipments.
func canViewShipment(role string, principalID uint, shipment *models.Shipment) bool {
	switch role {
	case "admin":
		return true
	case "user":
		return shipment.UserID != nil && *shipment.UserID == principalID
	default:
		return false
	}
}

// ShipmentGetByID возвращает заявку владельцу или администратору
func ShipmentGetByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		role := c.GetString("role")

		var shipment models.Shipment
		if err := db.Preload("Vehicle").First(&shipment, c.Param("id")).Error; err != nil {
			utils.RespondError(c, err, "Заявка не найдена")
			return
		}

		if !canViewShipment(role, userID, &shipment) {
			utils.RespondFail(c, http.StatusForbidden, "Недостаточно прав")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, shipment.ToAuthenticatedView())
	}
}

// ShipmentTrack — публичное отслеживание заявки по номеру
func ShipmentTrack(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		trackingNumber := c.Param("trackingNumber")

		var shipment models.Shipment
		if err := db.Where("tracking_number = ?", trackingNumber).First(&shipment).Error; err != nil {
			utils.RespondError(c, err, "Заявка не найдена")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, shipment.ToGuestView())
	}
}

// ShipmentCancel отменяет заявку пользователя, пока она не назначена
func ShipmentCancel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var shipment models.Shipment
		if err := db.First(&shipment, c.Param("id")).Error; err != nil {
			utils.RespondError(c, err, "Заявка не найдена")
			return
		}

		if shipment.UserID == nil || *shipment.UserID != userID.(uint) {
			utils.RespondFail(c, http.StatusForbidden, "Недостаточно прав")
			return
		}
		if shipment.Status != models.ShipmentStatusPending {
			utils.RespondFail(c, http.StatusConflict, "Заявку нельзя отменить в текущем статусе")
			return
		}

		shipment.Status = models.ShipmentStatusCancelled
		if err := db.Save(&shipment).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при отмене заявки")
			return
		}

		websocket.Broadcast(shipment.TrackingNumber, websocket.ShipmentStatusUpdateType, shipment.ToGuestView())
		utils.RespondSuccess(c, http.StatusOK, shipment.ToAuthenticatedView())
	}
}

// DriverListShipments возвращает заявки, назначенные на транспорт водителя
func DriverListShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var shipments []models.Shipment
		err := db.
			Where("vehicle_id IN (?)", db.Model(&models.Vehicle{}).Select("id").Where("driver_id = ?", userID)).
			Order("created_at DESC").
			Find(&shipments).Error
		if err != nil {
			utils.RespondError(c, err, "Ошибка при получении заявок")
			return
		}

		views := make([]models.AuthenticatedShipmentView, 0, len(shipments))
		for _, s := range shipments {
			views = append(views, s.ToAuthenticatedView())
		}

		utils.RespondSuccess(c, http.StatusOK, views)
	}
}

// Допустимые переходы статуса заявки для водителя
var driverStatusTransitions = map[models.ShipmentStatus][]models.ShipmentStatus{
	models.ShipmentStatusPending:   {models.ShipmentStatusPickedUp},
	models.ShipmentStatusPickedUp:  {models.ShipmentStatusInTransit},
	models.ShipmentStatusInTransit: {models.ShipmentStatusDelivered},
}

// DriverUpdateShipmentStatus переводит заявку по этапам доставки
func DriverUpdateShipmentStatus(db *gorm.DB, notifications *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req struct {
			Status models.ShipmentStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var shipment models.Shipment
		err := db.
			Where("id = ? AND vehicle_id IN (?)", c.Param("id"),
				db.Model(&models.Vehicle{}).Select("id").Where("driver_id = ?", userID)).
			First(&shipment).Error
		if err != nil {
			utils.RespondError(c, err, "Заявка не найдена")
			return
		}

		allowed := false
		for _, next := range driverStatusTransitions[shipment.Status] {
			if next == req.Status {
				allowed = true
				break
			}
		}
		if !allowed {
			utils.RespondFail(c, http.StatusConflict, "Недопустимый переход статуса")
			return
		}

		shipment.Status = req.Status
		if err := db.Save(&shipment).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении статуса")
			return
		}

		websocket.Broadcast(shipment.TrackingNumber, websocket.ShipmentStatusUpdateType, shipment.ToGuestView())
		if shipment.UserID != nil {
			notifications.Notify("user", *shipment.UserID,
				"Статус заявки изменен",
				"Заявка "+shipment.TrackingNumber+": "+string(shipment.Status),
				map[string]string{"type": "shipment_status", "trackingNumber": shipment.TrackingNumber})
		}

		utils.RespondSuccess(c, http.StatusOK, shipment.ToAuthenticatedView())
	}
}

// AdminListShipments возвращает все заявки с фильтром по статусу
func AdminListShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var shipments []models.Shipment
		if err := query.Preload("Vehicle").Find(&shipments).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении заявок")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, shipments)
	}
}

// AdminAssignShipment назначает водителя на заявку
func AdminAssignShipment(shipmentService *services.ShipmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный идентификатор заявки")
			return
		}

		shipment, err := shipmentService.Assign(c.Request.Context(), services.AssignParams{
			ShipmentID:            uint(shipmentID),
			DriverID:              req.DriverID,
			VehicleID:             req.VehicleID,
			Notes:                 req.Notes,
			EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrDriverNotEligible):
				utils.RespondFail(c, http.StatusBadRequest, "Водитель не активен или не имеет подтвержденных документов")
			case errors.Is(err, services.ErrShipmentNotFound):
				utils.RespondFail(c, http.StatusNotFound, "Заявка не найдена")
			case errors.Is(err, services.ErrVehicleNotFound):
				utils.RespondFail(c, http.StatusNotFound, "Транспорт не найден")
			case errors.Is(err, services.ErrVehicleTypeMismatch):
				utils.RespondFail(c, http.StatusBadRequest, "Тип транспорта водителя не подходит для заявки")
			case errors.Is(err, services.ErrVehicleOwnershipMismatch):
				utils.RespondFail(c, http.StatusBadRequest, "Транспорт принадлежит другому водителю")
			default:
				utils.RespondError(c, err, "Ошибка при назначении водителя")
			}
			return
		}

		websocket.Broadcast(shipment.TrackingNumber, websocket.ShipmentAssignedUpdateType, shipment.ToGuestView())
		utils.RespondSuccess(c, http.StatusOK, shipment.ToAuthenticatedView())
	}
}
