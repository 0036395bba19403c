package main

import (
	"context"
	"log"

	"github.com/halkompleksi/backend/internal/router"
	"github.com/halkompleksi/backend/pkg/config"
	"github.com/halkompleksi/backend/pkg/firebase"
	"github.com/halkompleksi/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
