package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/halkompleksi/backend/internal/handlers"
	"github.com/halkompleksi/backend/internal/matching"
	"github.com/halkompleksi/backend/internal/middleware"
	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
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
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("halkompleksi")
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	productRepo := repositories.NewMongoProductRepository(mongoDB)
	requestRepo := repositories.NewMongoProductRequestRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)

	// --- Matching core ---
	engine := matching.NewEngine(requestRepo)
	dispatcher := matching.NewDispatcher(requestRepo, notificationRepo)
	lifecycle := matching.NewLifecycle(requestRepo)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	productHandler := handlers.NewProductHandler(productRepo, dispatcher)
	public := e.Group("/api/v1")
	productHandler.RegisterPublicProductRoutes(public)
	log.Println("Public product routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	productHandler.RegisterProductRoutes(api)
	log.Println("Product routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, productRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	requestHandler := handlers.NewProductRequestHandler(lifecycle)
	requestHandler.RegisterProductRequestRoutes(api)
	log.Println("Product request routes configured.")

	// --- Admin routes ---
	adminGroup := e.Group("/api/v1/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())
	adminHandler := handlers.NewAdminHandler(productRepo, engine, dispatcher)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
