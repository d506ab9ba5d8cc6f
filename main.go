package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"savings-pet-system/handlers"
	"savings-pet-system/models"
	"savings-pet-system/services"
	"savings-pet-system/utils"
	"savings-pet-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})
	app.Use(recover.New())

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID",
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
		MaxAge:        86400,
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.BankAccount{},
		&models.LedgerEntry{},
		&models.Profile{},
		&models.Pet{},
		&models.City{},
		&models.WebhookDelivery{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ledgerStore := services.NewGormLedgerStore(db)
	stateStore := services.NewGormGameStateStore(db)
	plaidClient := services.NewPlaidClient(cfg.Plaid.BaseURL, cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Timeout)

	ingestion := services.NewIngestionService(ledgerStore, services.NewGormUnitOfWork(db), plaidClient)
	ingestion.DefaultCount = cfg.Ingest.DefaultCount
	ingestion.WindowDays = cfg.Ingest.WindowDays

	webhookLog := services.NewWebhookLog(db)
	webhooks := &handlers.WebhookHandler{
		Ingester: ingestion,
		Recorder: webhookLog,
	}
	if cfg.Archive.Enabled {
		archive, err := utils.NewR2Archive(ctx, cfg.Archive)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		webhooks.Archive = archive
		log.Printf("✅ Webhook payloads archived to bucket %s", cfg.Archive.Bucket)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	handlers.SetupWebhookRoutes(app, webhooks)
	handlers.SetupGameRoutes(app, cfg.GameServiceToken, stateStore, ledgerStore, webhookLog)

	if cfg.Resync.Enabled {
		worker := workers.NewResyncWorker(ledgerStore, ingestion, cfg.Ingest.DefaultCount)
		sched, err := worker.Start(ctx, cfg.Resync.Interval)
		if err != nil {
			log.Fatal("failed to start resync worker:", err)
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Printf("⚠️ [RESYNC] Scheduler shutdown error: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)
	if cfg.Resync.Enabled {
		log.Printf("✅ Re-sync worker running (every %s)", cfg.Resync.Interval)
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
