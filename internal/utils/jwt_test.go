package utils_test

import (
	"testing"

	"logistics-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("Токен пользователя содержит id и роль", func(t *testing.T) {
		token, err := utils.GenerateJWT(42, "driver")
		require.NoError(t, err)

		claims, err := utils.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "driver", claims.Role)
	})

	t.Run("Админский токен", func(t *testing.T) {
		token, err := utils.GenerateAdminJWT(0)
		require.NoError(t, err)

		claims, err := utils.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(0), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("Подделанный токен отклоняется", func(t *testing.T) {
		token, err := utils.GenerateJWT(42, "user")
		require.NoError(t, err)

		_, err = utils.ValidateToken(token + "x")
		assert.Error(t, err)
	})

	t.Run("Токен с другим секретом отклоняется", func(t *testing.T) {
		token, err := utils.GenerateJWT(42, "user")
		require.NoError(t, err)

		t.Setenv("JWT_SECRET", "other-secret")
		_, err = utils.ValidateToken(token)
		assert.Error(t, err)
	})
}
