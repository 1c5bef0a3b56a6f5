package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sharein/backend/internal/config"
	"github.com/sharein/backend/internal/database"
	"github.com/sharein/backend/internal/handlers"
	"github.com/sharein/backend/internal/mail"
	"github.com/sharein/backend/internal/middleware"
	"github.com/sharein/backend/internal/services"
	"github.com/sharein/backend/internal/storage"
	"github.com/sharein/backend/pkg/logger"
	"github.com/sharein/backend/pkg/utils"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed loading configuration: %v", err)
	}
	utils.ConfigureJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("object store initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring bucket: %v", err)
	}

	accessService := services.NewAccessService(db)
	thumbnailService := services.NewThumbnailService(storageClient)
	mailer := mail.NewSMTPMailer(cfg.Mail)

	authHandler := handlers.NewAuthHandler(db)
	filesHandler := handlers.NewFilesHandler(db, storageClient, accessService, thumbnailService, mailer, cfg.Share.BaseURL)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: cfg.Server.MaxUploadBytes})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Get("/profile/:uid", authHandler.Profile)
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/signin", authHandler.Signin)
	authRoutes.Post("/refresh-token", authHandler.Refresh)
	authRoutes.Post("/verify-token", authMiddleware.RequireAuth, authHandler.VerifyToken)

	fileRoutes := api.Group("/files", authMiddleware.RequireAuth)
	fileRoutes.Post("/upload", filesHandler.Upload)
	fileRoutes.Get("/", filesHandler.List)
	fileRoutes.Get("/:id", filesHandler.Get)
	fileRoutes.Put("/:id/access", filesHandler.ReplaceAccess)
	fileRoutes.Delete("/:id", filesHandler.Delete)
	fileRoutes.Post("/:id/share-email", filesHandler.ShareEmail)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
