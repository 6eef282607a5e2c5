package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/invoicer/internal/application/service"
	"github.com/sangkips/invoicer/internal/config"
	"github.com/sangkips/invoicer/internal/presentation/http/handler"
	"github.com/sangkips/invoicer/internal/presentation/http/routes"
	"github.com/sangkips/invoicer/pkg/logger"
	"github.com/sangkips/invoicer/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Export store
	store, err := storage.NewStoreFromConfig(cfg.Storage.Type, cfg.Storage.Path)
	if err != nil {
		appLogger.Fatal("Failed to initialize export storage", zap.Error(err))
	}

	// Initialize services
	layoutService := service.NewLayoutService()
	renderService := service.NewRenderService(layoutService, service.RenderOptions{
		QRCaption: cfg.Invoice.QRCaption,
		Footer:    cfg.Invoice.Footer,
		FontFile:  cfg.Invoice.FontFile,
		Compress:  cfg.Invoice.Compress,
		Creator:   cfg.App.Name,
	}, appLogger.Named("render"))
	exportService := service.NewExportService(layoutService, renderService, store, service.ExportOptions{
		AllowCopy: cfg.Storage.AllowCopy,
		TTL:       cfg.Storage.TTL(),
	}, appLogger.Named("export"))
	go exportService.RunCleanup(context.Background(), cfg.Storage.CleanupEvery())
	formService := service.NewFormService(service.FormDefaults{
		ThemeColor:  cfg.Invoice.ThemeColor,
		FontSize:    cfg.Invoice.FontSize,
		Currency:    cfg.Invoice.Currency,
		QRData:      cfg.Invoice.QRData,
		UnicodeFont: cfg.Invoice.FontFile != "",
	})
	importService := service.NewImportService(layoutService)

	templates, err := handler.Templates()
	if err != nil {
		appLogger.Fatal("Failed to parse templates", zap.Error(err))
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Form: handler.NewFormHandler(formService, layoutService, exportService, handler.FormOptions{
			AppName:       cfg.App.Name,
			AllowCopy:     cfg.Storage.AllowCopy,
			UploadMaxSize: cfg.Storage.UploadMaxSize,
		}, appLogger),
		Invoice: handler.NewInvoiceHandler(formService, layoutService, renderService, exportService, importService, cfg.Storage.UploadMaxSize),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:       cfg,
		Logger:    appLogger,
		Templates: templates,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	appLogger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
		zap.String("storage", cfg.Storage.Type),
	)

	if err := router.Run(":" + port); err != nil {
		appLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
