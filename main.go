package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"trash-detect-system/handlers"
	"trash-detect-system/models"
	"trash-detect-system/services"
	"trash-detect-system/utils"
	"trash-detect-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // 50MB, plenty for photos
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOriginsString,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey; the duplicate-photo guard depends on it.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Submission{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureTempDir(); err != nil {
		log.Fatal("failed to ensure temp dir:", err)
	}

	archiveEnabled, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 photo archive:", err)
	}

	inferenceURL := os.Getenv("INFERENCE_URL")
	if inferenceURL == "" {
		inferenceURL = "http://localhost:5000"
	}

	maxInflight := 4
	if v := os.Getenv("MAX_CONCURRENT_INFERENCES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxInflight = n
		}
	}

	detector := services.NewDetectorClient(inferenceURL)
	userService := services.NewUserService(db)
	submissionService := services.NewSubmissionService(db)
	classifyService := services.NewClassifyService(db, userService, submissionService, detector, maxInflight)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting detector health worker...")
		workers.PollDetector(ctx, detector, 30*time.Second)
	}()

	classifyService.StartTempSweeper()

	handlers.SetupRoutes(app, userService, classifyService)

	app.Static("/app", "./static")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Inference service: %s (max %d concurrent calls)", inferenceURL, maxInflight)
	if archiveEnabled {
		log.Println("✅ Photo archive (R2) enabled")
	} else {
		log.Println("⚠️  Photo archive (R2) disabled — R2_BUCKET_NAME not set")
	}
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
