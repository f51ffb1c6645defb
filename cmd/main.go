package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"auraportal/internal/caching"
	"auraportal/internal/handlers"
	"auraportal/internal/jobs"
	"auraportal/internal/middleware"
	"auraportal/internal/repositories"
	"auraportal/internal/services"
	"auraportal/internal/sheets"
	"auraportal/pkg/database"
)

const version = "1.0.0"

// Default access token lifetime in seconds.
const defaultTokenTTL = 3600

func main() {
	// Load .env when present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx := context.Background()

	// Google Sheets record store
	sheetClient, err := sheets.NewClient(ctx, sheets.Config{
		SpreadsheetID: os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
		ClientEmail:   os.Getenv("GOOGLE_SHEETS_CLIENT_EMAIL"),
		PrivateKey:    os.Getenv("GOOGLE_SHEETS_PRIVATE_KEY"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize sheets client: %v", err)
	}

	// Access log database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	tokenTTL := defaultTokenTTL
	if ttlStr := os.Getenv("TOKEN_TTL_SECONDS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			tokenTTL = ttl
		}
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	cardBucket := os.Getenv("CARD_BUCKET")
	if cardBucket == "" {
		cardBucket = "carteiras"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create repositories
	memberRepo := repositories.NewMemberRepo(sheetClient, cacheSvc)
	accessLogRepo := repositories.NewAccessLogRepo(pool)
	if err := accessLogRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure access log schema: %v", err)
	}

	// Create services
	authSvc := services.NewAuthService(memberRepo, accessLogRepo, cacheSvc, jwtSecret, tokenTTL)
	cardSvc := services.NewCardService(memberRepo)
	memberSvc := services.NewMemberService(memberRepo, accessLogRepo, cacheSvc)
	exporter := services.NewCardExporter(minioSvc, cardBucket)

	// Auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc, memberRepo)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	userHandlers := handlers.NewUserHandlers(authSvc)
	cardHandlers := handlers.NewCardHandlers(cardSvc, exporter)
	adminHandlers := handlers.NewAdminHandlers(memberSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := jobs.NewScheduler(memberSvc)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no token required for login)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(authMiddleware.Authenticate())

	protected.POST("/auth/logout", authHandlers.Logout)
	protected.GET("/me", userHandlers.Me)
	protected.POST("/me/password", userHandlers.ChangePassword)

	// Card routes
	protected.GET("/carteira", cardHandlers.GetCarteira)
	protected.GET("/carteira/export", cardHandlers.ExportCarteira)
	protected.POST("/carteira/share", cardHandlers.ShareCarteira)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())
	admin.GET("/users", adminHandlers.ListUsers)
	admin.POST("/users", adminHandlers.CreateUser)
	admin.PUT("/users/:cpf", adminHandlers.UpdateUser)
	admin.GET("/dashboard", adminHandlers.Dashboard)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("AURA portal backend v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
