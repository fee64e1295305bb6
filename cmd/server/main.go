package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatehub-backend/internal/config"
	"estatehub-backend/internal/database"
	"estatehub-backend/internal/handler"
	"estatehub-backend/internal/middleware"
	"estatehub-backend/internal/repository"
	"estatehub-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	propertyRepo := repository.NewPropertyRepository(db)
	agentRepo := repository.NewAgentRepository(db)

	// Services
	propertySvc := service.NewPropertyService(propertyRepo, agentRepo, cfg.StrictSearchConsistency)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.IsProduction(), cfg.CORSOrigins))

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// Properties. Static and nested paths go before /:id so Fiber does not
	// swallow them.
	propertyH := handler.NewPropertyHandler(propertySvc)
	props := app.Group("/properties")
	props.Get("/", middleware.RateLimit(120, time.Minute), middleware.OptionalAuth(cfg.JWTSecret), propertyH.List)
	props.Post("/", middleware.Auth(cfg.JWTSecret), propertyH.Create)
	props.Get("/site-paths", propertyH.SitePaths)
	props.Get("/agents", propertyH.AllAgents)
	props.Get("/agents/:name", middleware.RateLimit(120, time.Minute), propertyH.ByAgentName)
	props.Get("/related/:id", middleware.RateLimit(120, time.Minute), propertyH.Related)
	props.Get("/:id", propertyH.GetByID)
	props.Put("/:id", middleware.Auth(cfg.JWTSecret), propertyH.Update)
	props.Delete("/:id", middleware.Auth(cfg.JWTSecret), propertyH.Delete)
	props.Put("/configurations/:id", middleware.Auth(cfg.JWTSecret), propertyH.UpdateConfigurations)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("EstateHub backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Println("Server stopped")
}
