package routes

import (
	"fmt"

	"logistics-backend/internal/handlers"
	"logistics-backend/internal/middleware"
	"logistics-backend/internal/services"
	"logistics-backend/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps — зависимости, которые получают обработчики
type Deps struct {
	DB            *gorm.DB
	Cache         services.ResponseCache
	SMS           *services.SMSService
	VehicleTypes  *services.VehicleTypeService
	Drivers       *services.DriverService
	Shipments     *services.ShipmentService
	Notifications *services.NotificationService
}

func SetupRoutes(api *gin.RouterGroup, deps Deps) {
	db := deps.DB
	cache := deps.Cache

	// Публичные маршруты для аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/request-code", handlers.RequestVerificationCode(deps.SMS))
		auth.POST("/verify", handlers.VerifyAndLoginUser(db, deps.SMS))
		auth.POST("/driver/verify", handlers.VerifyAndLoginDriver(db, deps.SMS))
		auth.POST("/admin/login", handlers.AdminLogin(db))
	}

	// Публичное отслеживание и гостевые заявки
	api.POST("/shipments/guest", handlers.ShipmentCreateGuest(db, deps.VehicleTypes))
	api.GET("/shipments/track/:trackingNumber",
		middleware.CachePage(cache, middleware.CacheTTLShipments, middleware.TrackingKey),
		handlers.ShipmentTrack(db))

	// Каталог типов транспорта доступен без авторизации
	api.GET("/vehicle-types",
		middleware.CachePage(cache, middleware.CacheTTLCatalog, middleware.CatalogKey),
		handlers.VehicleTypeList(db))

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(db))
	{
		// FCM токен обновляется любой ролью, обработчик сам выбирает таблицу
		protected.PUT("/users/fcm-token", handlers.UpdateFCMToken(db))

		// Уведомления
		protected.GET("/notifications", handlers.NotificationList(db))
		protected.PUT("/notifications/:id/read", handlers.NotificationMarkRead(db))

		// Роуты для пользователей
		user := protected.Group("")
		user.Use(middleware.RequireRole("user"))
		{
			// Профиль пользователя. Без проверки роли водитель или админ
			// с тем же числовым id читал бы чужую запись users
			user.GET("/users/me",
				middleware.CachePage(cache, middleware.CacheTTLProfile, middleware.ProfileKey),
				handlers.UserGetProfile(db))
			user.PUT("/users/me",
				middleware.InvalidateCache(cache, invalidateProfile),
				handlers.UserUpdateProfile(db))

			user.POST("/shipments",
				middleware.InvalidateCache(cache, invalidateShipments),
				handlers.ShipmentCreate(db, deps.VehicleTypes))
			user.GET("/shipments",
				middleware.CachePage(cache, middleware.CacheTTLShipments, middleware.ShipmentsKey),
				handlers.ShipmentListMine(db))
			user.PUT("/shipments/:id/cancel",
				middleware.InvalidateCache(cache, invalidateShipments),
				handlers.ShipmentCancel(db))

			// Адреса
			user.GET("/addresses", handlers.AddressList(db))
			user.POST("/addresses", handlers.AddressCreate(db))
			user.PUT("/addresses/:id", handlers.AddressUpdate(db))
			user.DELETE("/addresses/:id", handlers.AddressDelete(db))

			// Настройки
			user.GET("/preferences", handlers.PreferencesGet(db))
			user.PUT("/preferences", handlers.PreferencesUpdate(db))
		}

		// Просмотр заявки доступен владельцу и администратору
		protected.GET("/shipments/:id", handlers.ShipmentGetByID(db))

		// Роуты для водителей
		driver := protected.Group("/driver")
		driver.Use(middleware.RequireRole("driver"))
		{
			driver.GET("/profile",
				middleware.CachePage(cache, middleware.CacheTTLProfile, middleware.ProfileKey),
				handlers.DriverGetProfile(db))
			driver.PUT("/profile",
				middleware.InvalidateCache(cache, invalidateProfile),
				handlers.DriverUpdateProfile(db))
			driver.PUT("/availability",
				middleware.InvalidateCache(cache, invalidateProfile),
				handlers.DriverUpdateAvailability(db))

			driver.GET("/shipments",
				middleware.CachePage(cache, middleware.CacheTTLShipments, middleware.ShipmentsKey),
				handlers.DriverListShipments(db))
			driver.PUT("/shipments/:id/status",
				middleware.InvalidateCache(cache, invalidateShipments),
				handlers.DriverUpdateShipmentStatus(db, deps.Notifications))

			driver.POST("/documents",
				middleware.InvalidateCache(cache, invalidateDocuments),
				handlers.DriverDocumentsSubmit(db))
			driver.GET("/documents",
				middleware.CachePage(cache, middleware.CacheTTLDocuments, middleware.DocumentsKey),
				handlers.DriverDocumentsGet(db))
			driver.DELETE("/documents/:id",
				middleware.InvalidateCache(cache, invalidateDocuments),
				handlers.DriverDocumentsDelete(db))

			driver.GET("/vehicles", handlers.VehicleListMine(db))
		}

		// Роуты для администраторов
		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/shipments", handlers.AdminListShipments(db))
			admin.POST("/shipments/:id/assign",
				middleware.InvalidateCache(cache, invalidateShipments),
				handlers.AdminAssignShipment(deps.Shipments))

			admin.GET("/drivers", handlers.AdminListDrivers(db))
			admin.GET("/drivers/available", handlers.AdminFindAvailableDrivers(deps.Drivers))
			admin.DELETE("/drivers/:id",
				middleware.InvalidateCache(cache, invalidateAllProfiles),
				handlers.AdminDeleteDriver(db))

			admin.GET("/documents", handlers.AdminListDocuments(db))
			admin.PUT("/documents/:id/status",
				middleware.InvalidateCache(cache, invalidateAllDocuments),
				handlers.AdminUpdateDocumentStatus(db))

			admin.GET("/vehicles", handlers.AdminListVehicles(db))

			admin.POST("/vehicle-types",
				middleware.InvalidateCache(cache, invalidateCatalog),
				handlers.VehicleTypeCreate(db, deps.VehicleTypes))
			admin.PUT("/vehicle-types/:id",
				middleware.InvalidateCache(cache, invalidateCatalog),
				handlers.VehicleTypeUpdate(db, deps.VehicleTypes))
			admin.DELETE("/vehicle-types/:id",
				middleware.InvalidateCache(cache, invalidateCatalog),
				handlers.VehicleTypeDelete(db, deps.VehicleTypes))
		}
	}
}

// Инвалидация после мутаций: точные ключи плюс glob-шаблоны.
// Списки заявок чистятся целиком — назначение и смена статуса
// затрагивают кэши сразу нескольких принципалов.

func invalidateShipments(c *gin.Context) ([]string, []string) {
	return nil, []string{fmt.Sprintf("%s:shipments:*", services.CacheKeyPrefix)}
}

func invalidateProfile(c *gin.Context) ([]string, []string) {
	return []string{middleware.ProfileKey(c)}, nil
}

func invalidateAllProfiles(c *gin.Context) ([]string, []string) {
	return nil, []string{fmt.Sprintf("%s:profile:*", services.CacheKeyPrefix)}
}

func invalidateDocuments(c *gin.Context) ([]string, []string) {
	return []string{middleware.DocumentsKey(c)}, nil
}

func invalidateAllDocuments(c *gin.Context) ([]string, []string) {
	return nil, []string{fmt.Sprintf("%s:documents:*", services.CacheKeyPrefix)}
}

func invalidateCatalog(c *gin.Context) ([]string, []string) {
	return []string{middleware.CatalogKey(c)}, nil
}

// RegisterWebsocket подключает маршрут отслеживания в реальном времени
func RegisterWebsocket(r *gin.Engine) {
	r.GET("/ws/shipments", websocket.Handler())
}
