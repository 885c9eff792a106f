package services

import (
	"time"

	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/planner"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// GoalPlan bundles everything the goal detail view needs: the goal itself
// plus every planner-derived figure for a hypothetical monthly contribution.
type GoalPlan struct {
	Goal                models.Goal               `json:"goal"`
	Progress            float64                   `json:"progress"`
	RemainingAmount     float64                   `json:"remaining_amount"`
	MonthsRemaining     int                       `json:"months_remaining"`
	RequiredMonthly     float64                   `json:"required_monthly_contribution"`
	ProjectedCompletion *time.Time                `json:"projected_completion,omitempty"`
	Projection          []planner.ProjectionPoint `json:"projection"`
	Milestones          []planner.Milestone       `json:"milestones"`
}

// GoalSummary is the trimmed goal record offered when linking SIPs to goals.
type GoalSummary struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Category      models.GoalCategory `json:"category"`
	TargetAmount  float64             `json:"target_amount"`
	CurrentAmount float64             `json:"current_amount"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, name string, category models.GoalCategory, targetAmount, currentAmount float64, targetDate time.Time) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest, category *models.GoalCategory) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, name string, targetAmount, currentAmount *float64, targetDate *time.Time) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
	UpdateProgress(userID, goalID uint, currentAmount float64) (*models.Goal, error)
	GetGoalPlan(userID, goalID uint, monthlyContribution float64, now time.Time) (*GoalPlan, error)
	GetGoalSummaries(userID uint) ([]GoalSummary, error)
}

// PortfolioSummary aggregates a user's holdings into headline figures.
type PortfolioSummary struct {
	TotalValue     float64 `json:"total_value"`
	CostBasis      float64 `json:"cost_basis"`
	UnrealizedGain float64 `json:"unrealized_gain"`
	GainPercent    float64 `json:"gain_percent"`
	HoldingCount   int     `json:"holding_count"`
}

// PortfolioServicer defines the contract for portfolio/holdings business logic.
type PortfolioServicer interface {
	AddHolding(userID uint, symbol, name string, assetClass models.AssetClass, quantity, avgCost, currentPrice float64, purchaseDate *time.Time) (*models.Holding, error)
	GetUserHoldings(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error)
	GetHoldingByID(userID, holdingID uint) (*models.Holding, error)
	UpdateHolding(userID, holdingID uint, quantity, avgCost, currentPrice *float64) (*models.Holding, error)
	DeleteHolding(userID, holdingID uint) error
	GetSummary(userID uint) (*PortfolioSummary, error)
	GetAllocation(userID uint) (planner.AllocationVector, float64, error)
}

// RebalancingAlert is a drift-derived notification for the dashboard.
type RebalancingAlert struct {
	Type              string    `json:"type"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	Assets            []string  `json:"assets"`
	RecommendedAction string    `json:"recommended_action"`
	CreatedAt         time.Time `json:"created_at"`
}

// ExecutionResult describes a simulated rebalancing execution.
type ExecutionResult struct {
	ExecutionID         string                `json:"execution_id"`
	StartedAt           time.Time             `json:"started_at"`
	EstimatedCompletion time.Time             `json:"estimated_completion"`
	Transactions        []planner.Transaction `json:"transactions"`
	TotalCost           float64               `json:"total_cost"`
}

// RebalancingServicer defines the contract for drift analysis, plan
// generation, simulated execution, and rebalancing preferences.
type RebalancingServicer interface {
	GetTargetAllocation(userID uint) (planner.AllocationVector, error)
	UpdateTargetAllocation(userID uint, allocation planner.AllocationVector) (planner.AllocationVector, error)
	AnalyzeDrift(userID uint, threshold *float64) (*planner.DriftAssessment, error)
	GeneratePlan(userID uint, threshold *float64) (*planner.Plan, error)
	ExecutePlan(userID uint, threshold *float64, reason string) (*ExecutionResult, error)
	GetHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.RebalancingRecord], error)
	GetAlerts(userID uint) ([]RebalancingAlert, error)
	GetSettings(userID uint) (*models.RebalancingSettings, error)
	UpdateSettings(userID uint, driftThreshold, minTransactionAmount *float64, autoRebalancing, notificationsEnabled *bool, frequency *models.RebalanceFrequency) (*models.RebalancingSettings, error)
}

// SIPServicer defines the contract for systematic investment plans.
type SIPServicer interface {
	CreateSIP(userID uint, goalID *uint, name string, amount float64, frequency models.SIPFrequency, startDate time.Time) (*models.SIP, error)
	GetUserSIPs(userID uint, page pagination.PageRequest, status *models.SIPStatus) (*pagination.PageResponse[models.SIP], error)
	GetSIPByID(userID, sipID uint) (*models.SIP, error)
	UpdateSIP(userID, sipID uint, name string, amount *float64, frequency *models.SIPFrequency) (*models.SIP, error)
	DeleteSIP(userID, sipID uint) error
	GetGoalSIPs(userID, goalID uint) ([]models.SIP, error)
	ToggleStatus(userID, sipID uint) (*models.SIP, error)
	TotalMonthlyCommitment(userID uint) (float64, error)
	ProcessDue(now time.Time) (int, error)
}

// RiskAssessmentOutcome pairs the stored assessment with the scored result.
type RiskAssessmentOutcome struct {
	Assessment models.RiskAssessment `json:"assessment"`
	Result     planner.RiskResult    `json:"result"`
}

// RiskServicer defines the contract for the risk questionnaire.
type RiskServicer interface {
	GetQuestions() []planner.RiskQuestion
	GetProfiles() []planner.RiskProfile
	SubmitAssessment(userID uint, answers map[int]int, applyAllocation bool) (*RiskAssessmentOutcome, error)
	GetLatestAssessment(userID uint) (*models.RiskAssessment, error)
}

// HarvestingOpportunity is one loss position flagged for tax review.
type HarvestingOpportunity struct {
	HoldingID           uint    `json:"holding_id"`
	Symbol              string  `json:"symbol"`
	Name                string  `json:"name"`
	Quantity            float64 `json:"quantity"`
	CostBasis           float64 `json:"cost_basis"`
	MarketValue         float64 `json:"market_value"`
	UnrealizedLoss      float64 `json:"unrealized_loss"`
	EstimatedTaxSavings float64 `json:"estimated_tax_savings"`
	Potential           string  `json:"harvesting_potential"`
}

// TaxAnalysis summarizes harvesting opportunities across the portfolio.
type TaxAnalysis struct {
	Opportunities          []HarvestingOpportunity `json:"opportunities"`
	TotalHarvestableLosses float64                 `json:"total_harvestable_losses"`
	EstimatedTaxSavings    float64                 `json:"estimated_tax_savings"`
}

// TaxServicer defines the contract for tax-loss review.
type TaxServicer interface {
	GetHarvestingOpportunities(userID uint) ([]HarvestingOpportunity, error)
	GetTaxAnalysis(userID uint) (*TaxAnalysis, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}
