package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wealthpath/internal/handlers"
	"wealthpath/internal/logger"
	"wealthpath/internal/middleware"
	"wealthpath/internal/models"
	"wealthpath/internal/planner"
	"wealthpath/internal/services"
	"wealthpath/internal/validator"
)

const pipelineTestKey = "integration-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Goal{},
		&models.Holding{},
		&models.SIP{},
		&models.TargetAllocation{},
		&models.RebalancingRecord{},
		&models.RebalancingSettings{},
		&models.RiskAssessment{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	goalService := services.NewGoalService(db)
	portfolioService := services.NewPortfolioService(db)
	rebalancingService := services.NewRebalancingService(db, portfolioService, planner.DefaultDriftThreshold, planner.DefaultFeeRate)
	sipService := services.NewSIPService(db)
	riskService := services.NewRiskService(db, rebalancingService)
	taxService := services.NewTaxService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, auditService)
	rebalancingHandler := handlers.NewRebalancingHandler(rebalancingService, auditService)
	sipHandler := handlers.NewSIPHandler(sipService, auditService)
	riskHandler := handlers.NewRiskHandler(riskService, auditService)
	taxHandler := handlers.NewTaxHandler(taxService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Pipeline routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(pipelineTestKey))
	pipeline.POST("/sips/process", sipHandler.ProcessDue)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

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

	portfolio := protected.Group("/portfolio")
	portfolio.POST("/holdings", portfolioHandler.AddHolding)
	portfolio.GET("/holdings", portfolioHandler.GetHoldings)
	portfolio.GET("/holdings/:id", portfolioHandler.GetHoldingByID)
	portfolio.PUT("/holdings/:id", portfolioHandler.UpdateHolding)
	portfolio.DELETE("/holdings/:id", portfolioHandler.DeleteHolding)
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/allocation", portfolioHandler.GetAllocation)

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

	sips := protected.Group("/sips")
	sips.POST("", sipHandler.CreateSIP)
	sips.GET("", sipHandler.GetSIPs)
	sips.GET("/commitment", sipHandler.GetCommitment)
	sips.GET("/:id", sipHandler.GetSIPByID)
	sips.PUT("/:id", sipHandler.UpdateSIP)
	sips.DELETE("/:id", sipHandler.DeleteSIP)
	sips.PUT("/:id/toggle", sipHandler.ToggleStatus)

	risk := protected.Group("/risk")
	risk.GET("/questions", riskHandler.GetQuestions)
	risk.GET("/profiles", riskHandler.GetProfiles)
	risk.POST("/assessments", riskHandler.SubmitAssessment)
	risk.GET("/assessments/latest", riskHandler.GetLatestAssessment)

	tax := protected.Group("/tax")
	tax.GET("/opportunities", taxHandler.GetOpportunities)
	tax.GET("/analysis", taxHandler.GetAnalysis)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest makes a request authenticated with the pipeline API key.
func (app *testApp) pipelineRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", pipelineTestKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}
