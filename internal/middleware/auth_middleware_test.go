package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"logistics-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// authAs подставляет принципала так, как это делает JWTAuth после проверки токена
func authAs(role string, id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("role", role)
		c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{
			name:       "Пользователь проходит на пользовательский маршрут",
			role:       "user",
			wantStatus: http.StatusOK,
		},
		{
			// Числовые id пользователей и водителей из разных таблиц:
			// водитель с id пользователя не должен попадать в его профиль
			name:       "Водитель с тем же id получает 403",
			role:       "driver",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Админ не проходит на пользовательский маршрут",
			role:       "admin",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false

			r := gin.New()
			r.Use(authAs(tt.role, 1))
			r.PUT("/users/me", middleware.RequireRole("user"), func(c *gin.Context) {
				handlerCalled = true
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/users/me", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, handlerCalled)
		})
	}
}
