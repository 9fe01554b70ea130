package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kosuvorov/WallPay/handlers"
	"github.com/kosuvorov/WallPay/models"
	"github.com/kosuvorov/WallPay/services"
	"github.com/kosuvorov/WallPay/storage"
	"github.com/kosuvorov/WallPay/utils"
	"github.com/kosuvorov/WallPay/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB, images only
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError turns the unique-index violation on concurrent duplicate
	// claims into gorm.ErrDuplicatedKey, which the reward service relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Wallpaper{},
		&models.RewardClaim{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	wallpaperStore := storage.NewWallpaperStore(db)
	claimLedger := storage.NewClaimLedger(db)

	var blobs services.BlobStore
	switch strings.ToLower(os.Getenv("BLOB_BACKEND")) {
	case "", "local":
		local, err := utils.NewLocalBlobStore(uploadDir)
		if err != nil {
			log.Fatal("failed to initialize upload dir:", err)
		}
		blobs = local
		app.Static("/uploads", uploadDir)

		sweeper := workers.NewOrphanSweeper(wallpaperStore, uploadDir, time.Hour)
		sweeper.Start(ctx, time.Hour)
	case "r2":
		r2, err := utils.NewR2BlobStore(ctx)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		blobs = r2
	default:
		log.Fatalf("unknown BLOB_BACKEND %q (use: local, r2)", os.Getenv("BLOB_BACKEND"))
	}

	catalogService := services.NewCatalogService(wallpaperStore, blobs)
	rewardService := services.NewRewardService(claimLedger, wallpaperStore)

	handlers.SetupWallpaperRoutes(app, catalogService)
	handlers.SetupRewardRoutes(app, rewardService)

	// Admin panel (static single-page app)
	if err := os.MkdirAll("./public", os.ModePerm); err != nil {
		log.Fatal("failed to ensure public dir:", err)
	}
	app.Static("/", "./public")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("WallPay server running on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api", port)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
