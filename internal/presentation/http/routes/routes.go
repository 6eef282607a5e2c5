package routes

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/invoicer/internal/config"
	"github.com/sangkips/invoicer/internal/presentation/http/handler"
	"github.com/sangkips/invoicer/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Form    *handler.FormHandler
	Invoice *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg       *config.Config
	Logger    *zap.Logger
	Templates *template.Template
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	if deps.Cfg.Storage.UploadMaxSize > 0 {
		router.MaxMultipartMemory = deps.Cfg.Storage.UploadMaxSize
	}
	router.SetHTMLTemplate(deps.Templates)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Per-client rate limiter for the routes that render PDFs
	limiterCfg := middleware.DefaultRateLimiterConfig()
	if rl := deps.Cfg.RateLimit; rl.Requests > 0 && rl.Duration > 0 {
		limiterCfg.RequestsPerSecond = float64(rl.Requests) / rl.Window().Seconds()
		limiterCfg.BurstSize = rl.Requests
	}
	rateLimiter := middleware.NewClientRateLimiter(limiterCfg)
	limited := rateLimiter.Middleware()

	registerFormRoutes(router, h, limited)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/currencies", h.Invoice.Currencies)

		form := v1.Group("/form")
		{
			form.GET("", h.Invoice.NewForm)
			form.POST("/actions", h.Invoice.FormAction)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("/layout", h.Invoice.Layout)
			invoices.POST("/items/import", h.Invoice.ImportItems)
			invoices.POST("/render", limited, h.Invoice.Render)
			invoices.POST("/export", limited, h.Invoice.Export)
		}

		v1.POST("/qr", h.Invoice.QR)
	}

	return router
}

func registerFormRoutes(router *gin.Engine, h *Handlers, limited gin.HandlerFunc) {
	router.GET("/", h.Form.Index)
	router.POST("/form", h.Form.Update)
	router.POST("/export", limited, h.Form.Export)
	router.GET("/exports/:id/:file", h.Form.Download)
}
