package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/planner"
	"wealthpath/internal/uuid"
)

// defaultTargetAllocation is seeded for a user on first read.
var defaultTargetAllocation = planner.AllocationVector{
	"stocks":       65,
	"bonds":        25,
	"cash":         7,
	"alternatives": 3,
}

// Default rebalancing settings, created on first read.
const (
	defaultMinTransactionAmount = 1000.0
	executionSettlementDays     = 3
)

// rebalancingService handles drift analysis, plan generation, simulated
// execution, and rebalancing preferences.
type rebalancingService struct {
	db        *gorm.DB
	portfolio PortfolioServicer
	threshold float64
	feeRate   float64
}

// NewRebalancingService creates a new RebalancingServicer. threshold and
// feeRate are the configured policy defaults; per-user settings and per-call
// overrides take precedence over threshold.
func NewRebalancingService(db *gorm.DB, portfolio PortfolioServicer, threshold, feeRate float64) RebalancingServicer {
	return &rebalancingService{db: db, portfolio: portfolio, threshold: threshold, feeRate: feeRate}
}

// GetTargetAllocation returns the user's target allocation, seeding the
// default split on first read.
func (s *rebalancingService) GetTargetAllocation(userID uint) (planner.AllocationVector, error) {
	var rows []models.TargetAllocation
	if err := s.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(rows) == 0 {
		return s.seedDefaultTarget(userID)
	}

	allocation := make(planner.AllocationVector, len(rows))
	for _, row := range rows {
		allocation[string(row.AssetClass)] = row.Percent
	}
	return allocation, nil
}

func (s *rebalancingService) seedDefaultTarget(userID uint) (planner.AllocationVector, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for class, pct := range defaultTargetAllocation {
			row := models.TargetAllocation{
				UserID:     userID,
				AssetClass: models.AssetClass(class),
				Percent:    pct,
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	allocation := make(planner.AllocationVector, len(defaultTargetAllocation))
	for class, pct := range defaultTargetAllocation {
		allocation[class] = pct
	}
	return allocation, nil
}

// UpdateTargetAllocation replaces the user's target allocation. Percentages
// must be in [0,100]; the sum is not required to land exactly on 100.
func (s *rebalancingService) UpdateTargetAllocation(userID uint, allocation planner.AllocationVector) (planner.AllocationVector, error) {
	if len(allocation) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target allocation cannot be empty")
	}
	for class, pct := range allocation {
		if pct < 0 || pct > 100 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("Allocation for %s must be between 0 and 100", class))
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.TargetAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for class, pct := range allocation {
			row := models.TargetAllocation{
				UserID:     userID,
				AssetClass: models.AssetClass(class),
				Percent:    pct,
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTargetAllocation(userID)
}

// AnalyzeDrift compares the user's computed current allocation against their
// stored target. threshold overrides, in order: per-call value, per-user
// settings, configured default.
func (s *rebalancingService) AnalyzeDrift(userID uint, threshold *float64) (*planner.DriftAssessment, error) {
	current, totalValue, err := s.portfolio.GetAllocation(userID)
	if err != nil {
		return nil, err
	}
	if totalValue == 0 {
		return nil, apperrors.ErrEmptyPortfolio
	}

	target, err := s.GetTargetAllocation(userID)
	if err != nil {
		return nil, err
	}

	return planner.AnalyzeDrift(current, target, totalValue, s.effectiveThreshold(userID, threshold))
}

// GeneratePlan synthesizes a rebalancing plan from the current drift.
func (s *rebalancingService) GeneratePlan(userID uint, threshold *float64) (*planner.Plan, error) {
	assessment, err := s.AnalyzeDrift(userID, threshold)
	if err != nil {
		return nil, err
	}
	return planner.BuildPlan(assessment, s.feeRate)
}

// ExecutePlan simulates executing the current rebalancing plan: no orders
// are placed, a history record is the only durable effect.
func (s *rebalancingService) ExecutePlan(userID uint, threshold *float64, reason string) (*ExecutionResult, error) {
	plan, err := s.GeneratePlan(userID, threshold)
	if err != nil {
		return nil, err
	}
	if !plan.NeedsRebalancing {
		return nil, apperrors.ErrPlanNotActionable
	}

	changes, err := json.Marshal(plan.Transactions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if reason == "" {
		reason = "User-initiated rebalancing"
	}

	now := time.Now()
	record := &models.RebalancingRecord{
		UserID:          userID,
		ExecutionID:     uuid.New(),
		Type:            models.RebalancingTypeManual,
		Reason:          reason,
		Status:          models.RebalancingStatusInProgress,
		TransactionCost: plan.EstimatedCosts.Total,
		ExecutedAt:      now,
		Changes:         string(changes),
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ExecutionResult{
		ExecutionID:         record.ExecutionID,
		StartedAt:           now,
		EstimatedCompletion: now.AddDate(0, 0, executionSettlementDays),
		Transactions:        plan.Transactions,
		TotalCost:           plan.EstimatedCosts.Total,
	}, nil
}

// GetHistory lists the user's rebalancing executions, newest first.
func (s *rebalancingService) GetHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.RebalancingRecord], error) {
	page.Defaults()

	query := s.db.Model(&models.RebalancingRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.RebalancingRecord
	if err := query.Scopes(pagination.Paginate(page)).Order("executed_at DESC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(records, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetAlerts derives dashboard alerts from the current drift assessment:
// a critical alert for high-severity assets and a warning for medium ones.
func (s *rebalancingService) GetAlerts(userID uint) ([]RebalancingAlert, error) {
	assessment, err := s.AnalyzeDrift(userID, nil)
	if err != nil {
		return nil, err
	}

	alerts := []RebalancingAlert{}
	if !assessment.NeedsRebalancing {
		return alerts, nil
	}

	var high, medium []string
	for _, asset := range assessment.Assets {
		switch asset.Severity {
		case planner.SeverityHigh:
			high = append(high, asset.Asset)
		case planner.SeverityMedium:
			medium = append(medium, asset.Asset)
		}
	}

	now := time.Now()
	if len(high) > 0 {
		alerts = append(alerts, RebalancingAlert{
			Type:              "critical",
			Title:             "Critical Portfolio Drift Detected",
			Message:           fmt.Sprintf("%d asset class(es) significantly out of balance", len(high)),
			Assets:            high,
			RecommendedAction: "immediate_rebalancing",
			CreatedAt:         now,
		})
	}
	if len(medium) > 0 {
		alerts = append(alerts, RebalancingAlert{
			Type:              "warning",
			Title:             "Portfolio Rebalancing Recommended",
			Message:           fmt.Sprintf("%d asset class(es) approaching drift threshold", len(medium)),
			Assets:            medium,
			RecommendedAction: "schedule_rebalancing",
			CreatedAt:         now,
		})
	}
	return alerts, nil
}

// GetSettings returns the user's rebalancing preferences, creating the
// default row on first read.
func (s *rebalancingService) GetSettings(userID uint) (*models.RebalancingSettings, error) {
	var settings models.RebalancingSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = models.RebalancingSettings{
		UserID:               userID,
		DriftThreshold:       s.threshold,
		AutoRebalancing:      false,
		Frequency:            models.RebalanceFrequencyQuarterly,
		NotificationsEnabled: true,
		MinTransactionAmount: defaultMinTransactionAmount,
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings updates the provided fields of the user's preferences.
func (s *rebalancingService) UpdateSettings(userID uint, driftThreshold, minTransactionAmount *float64, autoRebalancing, notificationsEnabled *bool, frequency *models.RebalanceFrequency) (*models.RebalancingSettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	if driftThreshold != nil {
		if *driftThreshold <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Drift threshold must be positive")
		}
		settings.DriftThreshold = *driftThreshold
	}
	if minTransactionAmount != nil {
		if *minTransactionAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Minimum transaction amount cannot be negative")
		}
		settings.MinTransactionAmount = *minTransactionAmount
	}
	if autoRebalancing != nil {
		settings.AutoRebalancing = *autoRebalancing
	}
	if notificationsEnabled != nil {
		settings.NotificationsEnabled = *notificationsEnabled
	}
	if frequency != nil {
		settings.Frequency = *frequency
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

// effectiveThreshold resolves the drift threshold: per-call override first,
// then the user's stored settings, then the configured default.
func (s *rebalancingService) effectiveThreshold(userID uint, override *float64) float64 {
	if override != nil && *override > 0 {
		return *override
	}
	var settings models.RebalancingSettings
	if err := s.db.Where("user_id = ?", userID).First(&settings).Error; err == nil && settings.DriftThreshold > 0 {
		return settings.DriftThreshold
	}
	return s.threshold
}
