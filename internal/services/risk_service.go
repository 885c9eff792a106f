package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/planner"
)

// riskService handles the risk tolerance questionnaire.
type riskService struct {
	db          *gorm.DB
	rebalancing RebalancingServicer
}

// NewRiskService creates a new RiskServicer. The rebalancing service is used
// to apply a profile's recommended allocation as the user's target.
func NewRiskService(db *gorm.DB, rebalancing RebalancingServicer) RiskServicer {
	return &riskService{db: db, rebalancing: rebalancing}
}

// GetQuestions returns the risk questionnaire.
func (s *riskService) GetQuestions() []planner.RiskQuestion {
	return planner.RiskQuestions()
}

// GetProfiles returns the investor profiles with their score bands.
func (s *riskService) GetProfiles() []planner.RiskProfile {
	return planner.RiskProfiles()
}

// SubmitAssessment scores a completed questionnaire, persists the result,
// and optionally applies the profile's recommended allocation as the user's
// rebalancing target.
func (s *riskService) SubmitAssessment(userID uint, answers map[int]int, applyAllocation bool) (*RiskAssessmentOutcome, error) {
	result, err := planner.CalculateRiskProfile(answers)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assessment := &models.RiskAssessment{
		UserID:      userID,
		Profile:     result.Profile,
		Score:       result.Score,
		MaxScore:    result.MaxPossibleScore,
		Answers:     string(encoded),
		CompletedAt: time.Now(),
	}
	if err := s.db.Create(assessment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if applyAllocation {
		if _, err := s.rebalancing.UpdateTargetAllocation(userID, result.Allocation); err != nil {
			return nil, err
		}
	}

	return &RiskAssessmentOutcome{
		Assessment: *assessment,
		Result:     *result,
	}, nil
}

// GetLatestAssessment returns the user's most recent assessment.
func (s *riskService) GetLatestAssessment(userID uint) (*models.RiskAssessment, error) {
	var assessment models.RiskAssessment
	if err := s.db.Where("user_id = ?", userID).Order("completed_at DESC").First(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssessmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &assessment, nil
}
