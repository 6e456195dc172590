package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/controllers"
	"github.com/ortega-imprenta/orders-api/middleware"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)
	log.Info().Msg("Starting Ortega orders API server...")

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Profile{}, &models.Order{}, &models.OrderFile{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed successfully")

	// File storage is optional in development; upload endpoints report
	// STORAGE_UNAVAILABLE when it is not configured
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize file storage")
		}
		log.Info().Str("bucket", cfg.AWSS3Bucket).Msg("File storage initialized")
	} else {
		log.Warn().Msg("AWS_S3_BUCKET not set, file uploads are disabled")
	}

	// Change notifications are optional too; without Redis the API works
	// but pushes nothing
	if cfg.RedisURL != "" {
		if _, err := services.InitEventsService(cfg.RedisURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize change notifications")
		}
		log.Info().Msg("Change notifications initialized")
	} else {
		log.Warn().Msg("REDIS_URL not set, change notifications are disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Info().Str("port", port).Msg("Server is running")
	if err := router.Run(port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// setupLogging configures the global zerolog logger from LOG_LEVEL
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// setupRouter builds the Gin engine with every route registered
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public authentication endpoints
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Bootstrap tasks provisioning the predefined accounts
		v1.POST("/setup/cashier", controllers.SetupCashier)
		v1.POST("/setup/vinil", controllers.SetupVinil)
		v1.POST("/setup/admins", controllers.SetupAdmins)
	}

	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg))
	{
		authed.GET("/profile", controllers.GetMyProfile)
		authed.PUT("/profile", controllers.UpdateMyProfile)

		authed.POST("/orders", controllers.CreateOrder)
		authed.GET("/orders", controllers.ListOrders)
		authed.GET("/orders/:id", controllers.GetOrder)

		authed.POST("/orders/:id/files", controllers.UploadOrderFile)
		authed.GET("/files/:fileId/url", controllers.GetFileURL)

		authed.GET("/events/orders", controllers.StreamOrderEvents)
	}

	// Cashier surface: search, payments, delivery and cancellation
	cashier := authed.Group("")
	cashier.Use(middleware.RequireRole(models.RoleCaja, models.RoleAdministrador))
	{
		cashier.GET("/cashier/search", controllers.SearchOrders)
		cashier.POST("/orders/:id/payments", controllers.RegisterPayment)
		cashier.POST("/orders/:id/deliver", controllers.DeliverOrder)
		cashier.POST("/orders/:id/cancel", controllers.CancelOrder)
	}

	// Production surface: the floor queue and status transitions
	production := authed.Group("")
	production.Use(middleware.RequireRole(
		models.RoleEstacion1, models.RoleEstacion3, models.RoleEstacion4, models.RoleAdministrador,
	))
	{
		production.GET("/production/queue", controllers.ProductionQueue)
		production.GET("/production/areas", controllers.ProductionAreas)
		production.POST("/orders/:id/start", controllers.StartProduction)
		production.POST("/orders/:id/complete", controllers.CompleteProduction)
	}

	// Administrator surface: user management and statistics
	admin := authed.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdministrador))
	{
		admin.GET("/users", controllers.ListUsers)
		admin.POST("/users", controllers.CreateUser)
		admin.PUT("/users/:id", controllers.UpdateUser)

		admin.GET("/stats/monthly", controllers.MonthlyReport)
		admin.GET("/stats/stations", controllers.StationStats)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ortega orders API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
