package utils

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// RespondSuccess отправляет успешный ответ в общем формате API
func RespondSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": StatusSuccess, "data": data})
}

// RespondFail отправляет ответ об ошибке клиента (4xx)
func RespondFail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": StatusFail, "message": message})
}

// RespondError транслирует ошибку хранилища или бизнес-логики в HTTP ответ.
// Известные классы ошибок БД отображаются в 404/409, остальное — 500
// с обезличенным сообщением вне режима разработки.
func RespondError(c *gin.Context, err error, message string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": StatusFail, "message": "Запись не найдена"})
		return
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			c.JSON(http.StatusConflict, gin.H{"status": StatusFail, "message": "Запись с такими данными уже существует"})
			return
		case "23503": // foreign_key_violation
			c.JSON(http.StatusConflict, gin.H{"status": StatusFail, "message": "Запись используется другими данными"})
			return
		}
	}

	log.Printf("Ошибка: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)

	if os.Getenv("GIN_MODE") == "release" {
		c.JSON(http.StatusInternalServerError, gin.H{"status": StatusError, "message": "Что-то пошло не так"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"status": StatusError, "message": message, "error": err.Error()})
}

// IsUniqueViolation проверяет, является ли ошибка нарушением уникальности
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
