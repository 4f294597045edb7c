package middleware

import (
	"net/http"
	"strings"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// JWTAuth проверяет Bearer токен и определяет принципала запроса.
// Роль берется из claims токена; старые токены без роли проверяются
// последовательно по таблицам: пользователь, водитель, администратор.
func JWTAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": utils.StatusFail, "message": "Отсутствует токен авторизации"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": utils.StatusFail, "message": "Неверный формат токена"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": utils.StatusFail, "message": "Недействительный токен"})
			c.Abort()
			return
		}

		role := claims.Role
		if role == "" {
			// Старый токен без роли: пробуем таблицы по очереди
			role = probeRole(db, claims.UserID)
			if role == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"status": utils.StatusFail, "message": "Пользователь не найден"})
				c.Abort()
				return
			}
		} else if !principalExists(db, role, claims.UserID) {
			c.JSON(http.StatusUnauthorized, gin.H{"status": utils.StatusFail, "message": "Пользователь не найден"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", role)
		c.Next()
	}
}

// principalExists проверяет наличие принципала в таблице его роли
func principalExists(db *gorm.DB, role string, id uint) bool {
	// Служебный админский токен (cmd/generate_admin_token) не имеет записи в БД
	if role == "admin" && id == 0 {
		return true
	}

	var count int64
	switch role {
	case "user":
		db.Model(&models.User{}).Where("id = ?", id).Count(&count)
	case "driver":
		db.Model(&models.Driver{}).Where("id = ?", id).Count(&count)
	case "admin":
		db.Model(&models.Admin{}).Where("id = ?", id).Count(&count)
	}
	return count > 0
}

func probeRole(db *gorm.DB, id uint) string {
	for _, role := range []string{"user", "driver", "admin"} {
		if principalExists(db, role, id) {
			return role
		}
	}
	return ""
}

// RequireRole пропускает только принципалов с указанной ролью
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get("role")
		if current != role {
			c.JSON(http.StatusForbidden, gin.H{"status": utils.StatusFail, "message": "Недостаточно прав"})
			c.Abort()
			return
		}
		c.Next()
	}
}
