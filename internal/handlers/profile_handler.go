package handlers

import (
	"net/http"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	PhotoUrl  string `json:"photoUrl"`
}

// UserGetProfile возвращает профиль текущего пользователя
func UserGetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении профиля")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, user.ToResponse())
	}
}

// UserUpdateProfile обновляет профиль текущего пользователя
func UserUpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении профиля")
			return
		}

		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if req.Email != "" {
			user.Email = req.Email
		}
		if req.PhotoUrl != "" {
			user.PhotoUrl = req.PhotoUrl
		}

		if err := db.Save(&user).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении профиля")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, user.ToResponse())
	}
}
