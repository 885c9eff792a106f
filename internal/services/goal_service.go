package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/planner"
)

// goalService handles goal-related business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new savings goal for a user.
func (s *goalService) CreateGoal(userID uint, name string, category models.GoalCategory, targetAmount, currentAmount float64, targetDate time.Time) (*models.Goal, error) {
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
	}
	if currentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current amount cannot be negative")
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          name,
		Category:      category,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		TargetDate:    targetDate,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals lists a user's goals, optionally filtered by category.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest, category *models.GoalCategory) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	query := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := query.Scopes(pagination.Paginate(page)).Order("target_date ASC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(goals, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetGoalByID retrieves a single goal owned by the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal updates a goal's name, amounts, or target date.
func (s *goalService) UpdateGoal(userID, goalID uint, name string, targetAmount, currentAmount *float64, targetDate *time.Time) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		goal.Name = name
	}
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
		}
		goal.TargetAmount = *targetAmount
	}
	if currentAmount != nil {
		if *currentAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current amount cannot be negative")
		}
		goal.CurrentAmount = *currentAmount
	}
	if targetDate != nil {
		goal.TargetDate = *targetDate
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal soft-deletes a goal and detaches any SIPs linked to it.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SIP{}).Where("goal_id = ?", goal.ID).Update("goal_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// UpdateProgress sets a goal's current amount.
func (s *goalService) UpdateProgress(userID, goalID uint, currentAmount float64) (*models.Goal, error) {
	if currentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current amount cannot be negative")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount = currentAmount
	if err := s.db.Save(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetGoalPlan computes the full planner view of a goal for a hypothetical
// monthly contribution: progress, required contribution, projected
// completion, the month-by-month projection, and milestones.
func (s *goalService) GetGoalPlan(userID, goalID uint, monthlyContribution float64, now time.Time) (*GoalPlan, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	requiredMonthly, err := planner.RequiredMonthlyContribution(goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, now)
	if err != nil {
		return nil, err
	}
	projectedCompletion, err := planner.ProjectedCompletionDate(goal.TargetAmount, goal.CurrentAmount, monthlyContribution, now)
	if err != nil {
		return nil, err
	}
	projection, err := planner.GenerateProjection(goal.TargetAmount, goal.CurrentAmount, monthlyContribution, goal.TargetDate, now)
	if err != nil {
		return nil, err
	}
	milestones, err := planner.Milestones(goal.TargetAmount, goal.CurrentAmount)
	if err != nil {
		return nil, err
	}

	return &GoalPlan{
		Goal:                *goal,
		Progress:            goal.CurrentAmount / goal.TargetAmount * 100,
		RemainingAmount:     math.Max(0, goal.TargetAmount-goal.CurrentAmount),
		MonthsRemaining:     planner.MonthsRemaining(goal.TargetDate, now),
		RequiredMonthly:     requiredMonthly,
		ProjectedCompletion: projectedCompletion,
		Projection:          projection,
		Milestones:          milestones,
	}, nil
}

// GetGoalSummaries returns trimmed goal records for SIP linking.
func (s *goalService) GetGoalSummaries(userID uint) ([]GoalSummary, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]GoalSummary, 0, len(goals))
	for _, g := range goals {
		summaries = append(summaries, GoalSummary{
			ID:            g.ID,
			Name:          g.Name,
			Category:      g.Category,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
		})
	}
	return summaries, nil
}
