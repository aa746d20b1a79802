package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"skillpath/backend/config"
	"skillpath/backend/middleware"
	"skillpath/backend/routes"
	"skillpath/backend/services"
	"skillpath/backend/store"
	"skillpath/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Document store over the same database
	st, err := store.NewGormStore(db)
	if err != nil {
		log.Fatalf("Error initializing document store: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, st, cfg, services.SystemClock())

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
