package router

import (
	"log"

	"github.com/Akinkuowo/Swophere/internal/handlers"
	"github.com/Akinkuowo/Swophere/internal/mailer"
	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mail *mailer.Mailer, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Notification{},
		&models.SwopAgreement{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "Swophere API is running!"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	agreementRepo := repositories.NewPostgresAgreementRepository(pgdb)
	swapRepo := repositories.NewMongoSwapRepository(mgClient.Database("swophere"))

	api := e.Group("/api")

	// Auth routes
	authHandler := handlers.NewAuthHandler(userRepo, mail, jwtSecret)
	authHandler.RegisterAuthRoutes(api.Group("/auth"))
	log.Println("Auth routes configured.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User profile routes configured.")

	// Swap listing routes
	swapHandler := handlers.NewSwapHandler(swapRepo, userRepo, mail)
	swapHandler.RegisterSwapRoutes(api)
	log.Println("Swap routes configured.")

	// Messaging routes
	messageHandler := handlers.NewMessageHandler(messageRepo, notificationRepo, userRepo)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Agreement routes
	agreementHandler := handlers.NewAgreementHandler(agreementRepo, notificationRepo, userRepo)
	agreementHandler.RegisterAgreementRoutes(api)
	log.Println("Agreement routes configured.")

	log.Println("All routes configured.")
}
