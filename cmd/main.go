package main

import (
	"net/http"

	"github.com/AaronAlejandrou/store-sicua-back/internal/handler"
	mid "github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/config"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/jwtutil"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load("store-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting store-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize session token utility
	jwtutil.Initialize(&appConfig.JWT)
	handler.InitSession(&appConfig.Session)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.Store{},
		&model.Product{},
		&model.Category{},
		&model.Sale{},
		&model.SaleItem{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes - register/login open a session, the rest require one
	authAPI := e.Group("/api/auth")
	authAPI.POST("/register", handler.Register)
	authAPI.POST("/login", handler.Login)
	authAPI.POST("/logout", handler.Logout)
	authAPI.GET("/status", handler.Status, mid.AuthMiddleware)
	authAPI.POST("/change-password", handler.ChangePassword, mid.AuthMiddleware)

	// Product API routes - auth middleware resolves the store from the session
	productAPI := e.Group("/api/products", mid.AuthMiddleware)
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.POST("", handler.CreateProduct)
	productAPI.PUT("/:id", handler.UpdateProduct)
	productAPI.DELETE("/:id", handler.DeleteProduct)

	// Excel routes live under the product API
	productAPI.POST("/excel/import", handler.ImportProductsFromExcel)
	productAPI.GET("/excel/export", handler.ExportProductsToExcel)
	productAPI.GET("/excel/template", handler.DownloadExcelTemplate)

	// Category API routes
	categoryAPI := e.Group("/api/categories", mid.AuthMiddleware)
	categoryAPI.GET("", handler.ListCategories)
	categoryAPI.GET("/next-number", handler.NextCategoryNumber)
	categoryAPI.GET("/by-number/:number", handler.GetCategoryByNumber)
	categoryAPI.GET("/:id", handler.GetCategory)
	categoryAPI.POST("", handler.CreateCategory)
	categoryAPI.PUT("/:id", handler.UpdateCategory)
	categoryAPI.DELETE("/:id", handler.DeleteCategory)

	// Sale API routes
	saleAPI := e.Group("/api/sales", mid.AuthMiddleware)
	saleAPI.GET("", handler.ListSales)
	saleAPI.POST("", handler.CreateSale)
	saleAPI.PUT("/:id/invoice", handler.InvoiceSale)
	saleAPI.GET("/excel/export", handler.ExportSales)

	// Store config API routes
	configAPI := e.Group("/api/store-config", mid.AuthMiddleware)
	configAPI.GET("", handler.GetStoreConfig)
	configAPI.PUT("", handler.UpdateStoreConfig)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
