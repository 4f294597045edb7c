package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"logistics-backend/internal/db"
	"logistics-backend/internal/middleware"
	"logistics-backend/internal/models"
	"logistics-backend/internal/routes"
	"logistics-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	var lastErr error

	for i := 0; i < maxAttempts; i++ {
		sqlDB, err := sql.Open("postgres", dsn)
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			lastErr = err
			log.Printf("Попытка подключения к БД %d из %d не удалась: %v\n", i+1, maxAttempts, err)
			time.Sleep(delay)
			continue
		}

		// Настройка пула соединений с БД
		maxOpenConns := 100
		maxIdleConns := 25
		connMaxLifetime := 60

		if val, err := strconv.Atoi(os.Getenv("DB_MAX_OPEN_CONNS")); err == nil && val > 0 {
			maxOpenConns = val
		}
		if val, err := strconv.Atoi(os.Getenv("DB_MAX_IDLE_CONNS")); err == nil && val > 0 {
			maxIdleConns = val
		}
		if val, err := strconv.Atoi(os.Getenv("DB_CONN_MAX_LIFETIME_MINUTES")); err == nil && val > 0 {
			connMaxLifetime = val
		}

		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)

		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err != nil {
			return nil, fmt.Errorf("не удалось инициализировать ORM: %w", err)
		}
		return gdb, nil
	}
	return nil, fmt.Errorf("не удалось подключиться к базе данных после %d попыток: %v", maxAttempts, lastErr)
}

func main() {
	// Устанавливаем режим релиза для продакшена
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	// Подключение к базе данных
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
	)

	gdb, err := connectWithRetry(dsn, 5, 5*time.Second)
	if err != nil {
		log.Fatal("Ошибка подключения к базе данных:", err)
	}

	// Подключение к Redis. Без Redis сервис работает, но кэширование ответов
	// отключено, а запросы кодов подтверждения возвращают ошибку —
	// хранить коды больше негде
	redisClient, err := db.NewRedisClient()
	if err != nil {
		log.Println("Предупреждение: Redis недоступен, продолжаем без кэширования:", err)
		redisClient = nil
	} else {
		log.Println("Успешное подключение к Redis")
		defer redisClient.Close()
	}

	// Автоматическая миграция моделей
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Admin{},
		&models.DriverDocument{},
		&models.VehicleTypeMapping{},
		&models.Vehicle{},
		&models.Shipment{},
		&models.Address{},
		&models.Preference{},
		&models.Notification{},
	); err != nil {
		log.Fatal("Ошибка миграции базы данных:", err)
	}

	// Сервисы
	cache := services.NewRedisCache(redisClient)
	sms := services.NewSMSService(redisClient)
	firebase := services.NewFirebaseService()

	outbox := services.NewOutbox(256)
	outbox.Start(4)

	notifications := services.NewNotificationService(gdb, firebase, outbox)
	vehicleTypes := services.NewVehicleTypeService(services.NewGormVehicleTypeStore(gdb))
	drivers := services.NewDriverService(services.NewGormDriverStore(gdb), vehicleTypes)
	shipments := services.NewShipmentService(services.NewGormShipmentStore(gdb), vehicleTypes, notifications)

	// Прогреваем каталог типов транспорта
	if err := vehicleTypes.Refresh(context.Background()); err != nil {
		log.Printf("Не удалось прогреть каталог типов транспорта: %v\n", err)
	}

	// Фоновые задачи: повторная доставка уведомлений и чистка старых записей
	stopCron := make(chan struct{})
	go func() {
		retryTicker := time.NewTicker(5 * time.Minute)
		cleanupTicker := time.NewTicker(24 * time.Hour)
		defer retryTicker.Stop()
		defer cleanupTicker.Stop()
		for {
			select {
			case <-retryTicker.C:
				notifications.RetrySweep(context.Background())
			case <-cleanupTicker.C:
				notifications.CleanupOld(context.Background())
			case <-stopCron:
				return
			}
		}
	}()

	// Создаем Gin роутер
	r := gin.New()

	// Используем наш собственный логгер и middleware для восстановления после паники
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// Добавляем middleware для сбора метрик
	r.Use(middleware.PrometheusMiddleware())

	// Настройка доверенных прокси
	r.SetTrustedProxies([]string{"127.0.0.1"})

	// Настройка CORS
	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Статическая директория для загруженных документов
	r.Static("/uploads", "./uploads")

	// Добавляем эндпоинт для метрик Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Проверка работоспособности системы
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API группа
	api := r.Group("/api")
	routes.SetupRoutes(api, routes.Deps{
		DB:            gdb,
		Cache:         cache,
		SMS:           sms,
		VehicleTypes:  vehicleTypes,
		Drivers:       drivers,
		Shipments:     shipments,
		Notifications: notifications,
	})

	// WebSocket маршрут вне группы /api для совместимости с клиентом
	routes.RegisterWebsocket(r)

	// Получаем порт из переменных окружения
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Создаем HTTP сервер с настроенными таймаутами
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Сервер запущен на порту %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска сервера: %s", err)
		}
	}()

	// Ожидаем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Получен сигнал завершения, закрываем соединения...")

	// Даем 30 секунд на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Ошибка при graceful shutdown: %s", err)
	}

	// Останавливаем фоновые задачи и ждем доставки поставленных уведомлений
	close(stopCron)
	outbox.Stop()

	log.Println("Сервер корректно завершил работу")
}
