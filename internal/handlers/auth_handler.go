package handlers

import (
	"errors"
	"log"
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/services"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

type VerifyCodeRequest struct {
	Phone     string `json:"phone" binding:"required,e164"`
	Code      string `json:"code" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type VerifyDriverRequest struct {
	Phone         string `json:"phone" binding:"required,e164"`
	Code          string `json:"code" binding:"required"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RequestVerificationCode отправляет код подтверждения на номер телефона
func RequestVerificationCode(sms *services.SMSService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		code := sms.GenerateVerificationCode()
		if err := sms.SendVerificationCode(c.Request.Context(), req.Phone, code); err != nil {
			log.Printf("Ошибка при отправке кода на %s: %v", req.Phone, err)
			utils.RespondError(c, err, "Ошибка при отправке кода подтверждения")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Код подтверждения отправлен"})
	}
}

// VerifyAndLoginUser проверяет код и авторизует пользователя.
// Если пользователя с таким номером нет, он регистрируется.
func VerifyAndLoginUser(db *gorm.DB, sms *services.SMSService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		isValid, err := sms.VerifyCode(c.Request.Context(), req.Phone, req.Code)
		if err != nil || !isValid {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный код подтверждения")
			return
		}

		var user models.User
		result := db.Where("phone = ?", req.Phone).First(&user)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				utils.RespondError(c, result.Error, "Ошибка при поиске пользователя")
				return
			}
			// Регистрируем нового пользователя
			if req.FirstName == "" {
				utils.RespondFail(c, http.StatusBadRequest, "Для регистрации укажите имя")
				return
			}
			user = models.User{
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Phone:     req.Phone,
				Role:      "user",
			}
			if err := db.Create(&user).Error; err != nil {
				utils.RespondError(c, err, "Ошибка при создании пользователя")
				return
			}
			log.Printf("Зарегистрирован новый пользователь: %d (%s)", user.ID, user.Phone)
		}

		token, err := utils.GenerateJWT(user.ID, "user")
		if err != nil {
			utils.RespondError(c, err, "Ошибка при создании токена")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{
			"token": token,
			"user":  user.ToResponse(),
		})
	}
}

// VerifyAndLoginDriver проверяет код и авторизует водителя.
// Новый водитель регистрируется со свободным текстом типа транспорта.
func VerifyAndLoginDriver(db *gorm.DB, sms *services.SMSService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyDriverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		isValid, err := sms.VerifyCode(c.Request.Context(), req.Phone, req.Code)
		if err != nil || !isValid {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный код подтверждения")
			return
		}

		var driver models.Driver
		result := db.Where("phone = ?", req.Phone).First(&driver)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				utils.RespondError(c, result.Error, "Ошибка при поиске водителя")
				return
			}
			if req.FirstName == "" || req.VehicleType == "" {
				utils.RespondFail(c, http.StatusBadRequest, "Для регистрации укажите имя и тип транспорта")
				return
			}
			driver = models.Driver{
				FirstName:          req.FirstName,
				LastName:           req.LastName,
				Phone:              req.Phone,
				VehicleType:        req.VehicleType,
				VehicleNumber:      req.VehicleNumber,
				IsActive:           true,
				AvailabilityStatus: models.DriverOffline,
			}
			if err := db.Create(&driver).Error; err != nil {
				utils.RespondError(c, err, "Ошибка при создании водителя")
				return
			}
			log.Printf("Зарегистрирован новый водитель: %d (%s)", driver.ID, driver.Phone)
		}

		token, err := utils.GenerateJWT(driver.ID, "driver")
		if err != nil {
			utils.RespondError(c, err, "Ошибка при создании токена")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{
			"token":  token,
			"driver": driver.ToResponse(),
		})
	}
}

// AdminLogin авторизует администратора по email и паролю
func AdminLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var admin models.Admin
		if err := db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
			utils.RespondFail(c, http.StatusUnauthorized, "Неверный email или пароль")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			utils.RespondFail(c, http.StatusUnauthorized, "Неверный email или пароль")
			return
		}

		token, err := utils.GenerateAdminJWT(admin.ID)
		if err != nil {
			utils.RespondError(c, err, "Ошибка при создании токена")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{
			"token": token,
			"admin": gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email},
		})
	}
}

// UpdateFCMToken обновляет FCM токен текущего принципала
func UpdateFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			FCMToken string `json:"fcmToken" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")

		var err error
		switch role {
		case "driver":
			err = db.Model(&models.Driver{}).Where("id = ?", userID).Update("fcm_token", req.FCMToken).Error
		default:
			err = db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", req.FCMToken).Error
		}
		if err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении FCM токена")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "FCM токен успешно обновлен"})
	}
}
