package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rentpro_backend/database"
	"rentpro_backend/internal/config"
	"rentpro_backend/internal/email"
	"rentpro_backend/internal/handlers"
	"rentpro_backend/internal/logger"
	"rentpro_backend/internal/middleware"
	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/routes"
	"rentpro_backend/internal/scheduler"
	"rentpro_backend/internal/services"
	"rentpro_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	// Планировщик напоминаний стартует вместе с сервером и
	// останавливается на shutdown, дожидаясь текущего тика.
	serviceContainer.Scheduler.Start()
	defer serviceContainer.Scheduler.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))

	errCh := make(chan error, 1)
	go func() {
		errCh <- ginRouter.Run(address)
	}()

	select {
	case err := <-errCh:
		logger.Fatal("Server startup error", "error", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	customerRepo := repositories.NewCustomerRepository(gormDB)
	machineRepo := repositories.NewMachineRepository(gormDB)
	documentRepo := repositories.NewDocumentRepository(gormDB)
	quotationRepo := repositories.NewQuotationRepository(gormDB)
	recordRepo := repositories.NewServiceRecordRepository(gormDB)
	jobRepo := repositories.NewNotificationJobRepository(gormDB)

	authService := services.NewAuthService(userRepo)
	customerService := services.NewCustomerService(customerRepo)
	machineService := services.NewMachineService(machineRepo)
	documentService := services.NewDocumentService(documentRepo, machineRepo)
	quotationService := services.NewQuotationService(quotationRepo, customerRepo)
	recordService := services.NewServiceRecordService(recordRepo, machineRepo)

	supervisor := buildScheduler(cfg, documentRepo, jobRepo)

	return &services.ServiceContainer{
		AuthService:          authService,
		CustomerService:      customerService,
		MachineService:       machineService,
		DocumentService:      documentService,
		QuotationService:     quotationService,
		ServiceRecordService: recordService,
		Scheduler:            supervisor,
	}
}

// buildScheduler собирает policy -> engine -> dispatcher -> supervisor
// из секции notifications конфига.
func buildScheduler(cfg *config.Config, docs repositories.DocumentRepository, jobs repositories.NotificationJobRepository) *scheduler.Supervisor {
	policy, err := scheduler.NewPolicy(cfg.Notifications.DefaultThresholds)
	if err != nil {
		logger.Fatal("Invalid notification thresholds in config", "error", err)
	}

	mailer := email.NewGomailSender(cfg)
	engine := scheduler.NewEngine(docs, jobs, policy)
	dispatcher := scheduler.NewDispatcher(jobs, mailer, cfg.Notifications.MaxRetries, cfg.SendTimeout())

	return scheduler.NewSupervisor(
		engine,
		dispatcher,
		jobs,
		policy,
		cfg.TickInterval(),
		cfg.Notifications.DispatchBatchSize,
	)
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, services.AuthService),
		CustomerHandler:  handlers.NewCustomerHandler(baseHandler, services.CustomerService),
		MachineHandler:   handlers.NewMachineHandler(baseHandler, services.MachineService, services.ServiceRecordService),
		DocumentHandler:  handlers.NewDocumentHandler(baseHandler, services.DocumentService),
		QuotationHandler: handlers.NewQuotationHandler(baseHandler, services.QuotationService),
		EmailHandler:     handlers.NewEmailHandler(baseHandler, services.Scheduler),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("FIRST_ADMIN_EMAIL")
	adminPassword := os.Getenv("FIRST_ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
