package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wealthpath/internal/config"
	"wealthpath/internal/database"
	"wealthpath/internal/handlers"
	"wealthpath/internal/logger"
	"wealthpath/internal/middleware"
	"wealthpath/internal/scheduler"
	"wealthpath/internal/services"
	"wealthpath/internal/validator"

	_ "wealthpath/internal/docs" // Import swagger docs
)

// @title           WealthPath API
// @version         1.0
// @description     WealthPath is an investment dashboard backend covering goal projections, portfolio drift analysis, rebalancing plans, and systematic investment plans.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Pipeline API key for automation endpoints.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	goalService := services.NewGoalService(db)
	portfolioService := services.NewPortfolioService(db)
	rebalancingService := services.NewRebalancingService(db, portfolioService, appConfig.DriftThreshold, appConfig.FeeRate)
	sipService := services.NewSIPService(db)
	riskService := services.NewRiskService(db, rebalancingService)
	taxService := services.NewTaxService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, auditService)
	rebalancingHandler := handlers.NewRebalancingHandler(rebalancingService, auditService)
	sipHandler := handlers.NewSIPHandler(sipService, auditService)
	riskHandler := handlers.NewRiskHandler(riskService, auditService)
	taxHandler := handlers.NewTaxHandler(taxService)

	// Start the SIP installment scheduler
	sipScheduler, err := scheduler.New(sipService, appConfig.SIPCronSchedule)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sipScheduler.Start()
	defer sipScheduler.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Pipeline routes (API-key protected automation endpoints)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/sips/process", sipHandler.ProcessDue)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/summaries", goalHandler.GetGoalSummaries)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/plan", goalHandler.GetGoalPlan)
	goals.PUT("/:id/progress", goalHandler.UpdateProgress)
	goals.GET("/:id/sips", sipHandler.GetGoalSIPs)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.POST("/holdings", portfolioHandler.AddHolding)
	portfolio.GET("/holdings", portfolioHandler.GetHoldings)
	portfolio.GET("/holdings/:id", portfolioHandler.GetHoldingByID)
	portfolio.PUT("/holdings/:id", portfolioHandler.UpdateHolding)
	portfolio.DELETE("/holdings/:id", portfolioHandler.DeleteHolding)
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/allocation", portfolioHandler.GetAllocation)

	// Rebalancing routes
	rebalancing := protected.Group("/rebalancing")
	rebalancing.GET("/target", rebalancingHandler.GetTargetAllocation)
	rebalancing.PUT("/target", rebalancingHandler.UpdateTargetAllocation)
	rebalancing.GET("/drift", rebalancingHandler.AnalyzeDrift)
	rebalancing.GET("/plan", rebalancingHandler.GeneratePlan)
	rebalancing.POST("/execute", rebalancingHandler.ExecutePlan)
	rebalancing.GET("/history", rebalancingHandler.GetHistory)
	rebalancing.GET("/alerts", rebalancingHandler.GetAlerts)
	rebalancing.GET("/settings", rebalancingHandler.GetSettings)
	rebalancing.PUT("/settings", rebalancingHandler.UpdateSettings)

	// SIP routes
	sips := protected.Group("/sips")
	sips.POST("", sipHandler.CreateSIP)
	sips.GET("", sipHandler.GetSIPs)
	sips.GET("/commitment", sipHandler.GetCommitment)
	sips.GET("/:id", sipHandler.GetSIPByID)
	sips.PUT("/:id", sipHandler.UpdateSIP)
	sips.DELETE("/:id", sipHandler.DeleteSIP)
	sips.POST("/:id/toggle", sipHandler.ToggleStatus)

	// Risk questionnaire routes
	risk := protected.Group("/risk")
	risk.GET("/questions", riskHandler.GetQuestions)
	risk.GET("/profiles", riskHandler.GetProfiles)
	risk.POST("/assessments", riskHandler.SubmitAssessment)
	risk.GET("/assessments/latest", riskHandler.GetLatestAssessment)

	// Tax review routes
	tax := protected.Group("/tax")
	tax.GET("/opportunities", taxHandler.GetOpportunities)
	tax.GET("/analysis", taxHandler.GetAnalysis)

	log.Infof("Starting WealthPath backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
