package app

import (
	"errors"
	"fmt"

	"estatedesk_backend/database"
	"estatedesk_backend/internal/config"
	"estatedesk_backend/internal/handlers"
	"estatedesk_backend/internal/logger"
	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/routes"
	"estatedesk_backend/internal/services"
	"estatedesk_backend/internal/validator"
	"estatedesk_backend/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(db, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	hub := ws.NewHub()
	defer hub.Shutdown()

	engine := SetupRouter(cfg, db, hub)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := engine.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services and handlers onto a gin
// engine. Split out from Run so tests can build a full router against
// their own database and hub.
func SetupRouter(cfg *config.Config, db *gorm.DB, hub *ws.Hub) *gin.Engine {
	userRepo := repositories.NewUserRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	rentRepo := repositories.NewRentRecordRepository(db)
	queryRepo := repositories.NewTenantQueryRepository(db)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, hub)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, notificationService)
	propertyService := services.NewPropertyService(propertyRepo, userRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, userRepo, notificationService)
	rentService := services.NewRentRecordService(rentRepo, propertyRepo, notificationService)
	queryService := services.NewTenantQueryService(queryRepo, notificationService)

	baseHandler := handlers.NewBaseHandler(validator.New())
	streamHandler := ws.NewStreamHandler(hub)

	appHandlers := &handlers.AppHandlers{
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
		AuthHandler:         handlers.NewAuthHandler(baseHandler, authService),
		UserHandler:         handlers.NewUserHandler(baseHandler, userService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, notificationService, streamHandler),
		PropertyHandler:     handlers.NewPropertyHandler(baseHandler, propertyService),
		TaskHandler:         handlers.NewTaskHandler(baseHandler, taskService),
		RentRecordHandler:   handlers.NewRentRecordHandler(baseHandler, rentService),
		TenantQueryHandler:  handlers.NewTenantQueryHandler(baseHandler, queryService),
	}

	engine := initializeGinRouter(db)
	routes.RegisterRoutes(engine, appHandlers)

	return engine
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.DBMiddleware(db))
	return engine
}

// seedFirstAdmin creates the bootstrap admin account when configured
// and no user with that email exists yet.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials not configured, skipping admin seeding")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists, skipping creation", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check for admin user: %w", result.Error)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: string(hashed),
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
