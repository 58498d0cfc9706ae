package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filmdesk/backend/internal/config"
	"github.com/filmdesk/backend/internal/handlers"
	"github.com/filmdesk/backend/internal/middleware"
	"github.com/filmdesk/backend/internal/models"
	"github.com/filmdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (rate limiters bypass when unreachable)
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	storeService := services.NewStoreService(db, cfg)
	captureService := services.NewCaptureService(storeService, cfg)
	convertService := services.NewConvertService(storeService, cfg)
	storageService := services.NewStorageService(cfg)
	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to init S3 service: %v", err)
	}
	exportService := services.NewExportService(storeService, storageService, s3Service, cfg)
	renderService := services.NewRenderService(storeService, cfg)

	spoolDevice := services.NewSpoolDevice(cfg.SpoolPath)
	sessionService := services.NewSessionService(cfg, spoolDevice)
	sessionService.SetFrameSink(func(ctx context.Context, folder string, payload []byte, mimeType string) {
		if _, err := captureService.CaptureFrame(ctx, folder, payload, mimeType); err != nil {
			log.Printf("Spool capture into %q failed: %v", folder, err)
		}
	})
	defer sessionService.Close()

	// Open the store asynchronously; requests arriving before completion
	// are rejected with store-not-ready. The store is cleared on every
	// launch, sessions are never restored.
	go func() {
		if err := storeService.Open(context.Background()); err != nil {
			log.Fatalf("Failed to open frame store: %v", err)
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionService)
	frameHandler := handlers.NewFrameHandler(storeService, captureService, sessionService)
	folderHandler := handlers.NewFolderHandler(storeService, convertService, exportService, renderService, sessionService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "store_ready": storeService.Ready()})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Scan session (view state machine)
		session := api.Group("/session")
		{
			session.GET("", sessionHandler.GetSession)
			session.POST("/folder", sessionHandler.SelectFolder)
			session.POST("/scan", sessionHandler.StartScan)
			session.POST("/back", sessionHandler.Back)
		}

		// Folders
		api.GET("/folders", folderHandler.ListFolders)
		api.GET("/folders/:name", folderHandler.GetFolder)
		api.POST("/folders/:name/convert", folderHandler.ConvertFolder)
		api.GET("/folders/:name/export.zip", folderHandler.ExportFolder)
		api.GET("/folders/:name/contact-sheet.pdf", folderHandler.ContactSheet)
		api.GET("/folders/:name/export/qr.png", folderHandler.ExportQR)

		// Frames
		api.GET("/frames/:id/file", frameHandler.ServeFrameFile)
		api.DELETE("/frames", frameHandler.ClearAll)

		// Ingest routes with daily rate limiting
		ingest := api.Group("")
		ingest.Use(middleware.IngestRateLimit(redisClient, cfg))
		{
			ingest.POST("/scan/frames", frameHandler.Capture)
			ingest.POST("/frames/upload", frameHandler.Upload)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // allow large frame uploads
		WriteTimeout: 120 * time.Second, // allow large bundle downloads
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
