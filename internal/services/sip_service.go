package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/logger"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
)

// Frequency conversion factors for the monthly commitment figure.
const (
	weeksPerMonth         = 4.33
	investingDaysPerMonth = 30
)

// sipService handles systematic investment plans.
type sipService struct {
	db *gorm.DB
}

// NewSIPService creates a new SIPServicer.
func NewSIPService(db *gorm.DB) SIPServicer {
	return &sipService{db: db}
}

// CreateSIP creates a new SIP. The first installment is due on the start date.
func (s *sipService) CreateSIP(userID uint, goalID *uint, name string, amount float64, frequency models.SIPFrequency, startDate time.Time) (*models.SIP, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}

	if goalID != nil {
		var count int64
		if err := s.db.Model(&models.Goal{}).Where("id = ? AND user_id = ?", *goalID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrGoalNotFound
		}
	}

	sip := &models.SIP{
		UserID:             userID,
		GoalID:             goalID,
		Name:               name,
		Amount:             amount,
		Frequency:          frequency,
		Status:             models.SIPStatusActive,
		StartDate:          startDate,
		NextInvestmentDate: startDate,
	}

	if err := s.db.Create(sip).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sip, nil
}

// GetUserSIPs lists a user's SIPs, optionally filtered by status.
func (s *sipService) GetUserSIPs(userID uint, page pagination.PageRequest, status *models.SIPStatus) (*pagination.PageResponse[models.SIP], error) {
	page.Defaults()

	query := s.db.Model(&models.SIP{}).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sips []models.SIP
	if err := query.Scopes(pagination.Paginate(page)).Order("next_investment_date ASC").Find(&sips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(sips, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetSIPByID retrieves a single SIP owned by the user.
func (s *sipService) GetSIPByID(userID, sipID uint) (*models.SIP, error) {
	var sip models.SIP
	if err := s.db.Where("id = ? AND user_id = ?", sipID, userID).First(&sip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSIPNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sip, nil
}

// UpdateSIP updates a SIP's name, amount, or frequency.
func (s *sipService) UpdateSIP(userID, sipID uint, name string, amount *float64, frequency *models.SIPFrequency) (*models.SIP, error) {
	sip, err := s.GetSIPByID(userID, sipID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		sip.Name = name
	}
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
		}
		sip.Amount = *amount
	}
	if frequency != nil {
		sip.Frequency = *frequency
	}

	if err := s.db.Save(sip).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sip, nil
}

// DeleteSIP soft-deletes a SIP.
func (s *sipService) DeleteSIP(userID, sipID uint) error {
	sip, err := s.GetSIPByID(userID, sipID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(sip).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetGoalSIPs lists the SIPs feeding a specific goal.
func (s *sipService) GetGoalSIPs(userID, goalID uint) ([]models.SIP, error) {
	var sips []models.SIP
	if err := s.db.Where("user_id = ? AND goal_id = ?", userID, goalID).Order("id ASC").Find(&sips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sips, nil
}

// ToggleStatus flips a SIP between active and paused.
func (s *sipService) ToggleStatus(userID, sipID uint) (*models.SIP, error) {
	sip, err := s.GetSIPByID(userID, sipID)
	if err != nil {
		return nil, err
	}

	if sip.Status == models.SIPStatusActive {
		sip.Status = models.SIPStatusPaused
	} else {
		sip.Status = models.SIPStatusActive
	}

	if err := s.db.Save(sip).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sip, nil
}

// TotalMonthlyCommitment sums the user's active SIPs normalized to a monthly
// amount: weekly plans count 4.33 installments per month, daily plans 30.
func (s *sipService) TotalMonthlyCommitment(userID uint) (float64, error) {
	var sips []models.SIP
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.SIPStatusActive).Find(&sips).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := 0.0
	for _, sip := range sips {
		switch sip.Frequency {
		case models.SIPFrequencyMonthly:
			total += sip.Amount
		case models.SIPFrequencyWeekly:
			total += sip.Amount * weeksPerMonth
		case models.SIPFrequencyDaily:
			total += sip.Amount * investingDaysPerMonth
		}
	}
	return total, nil
}

// ProcessDue executes every active SIP installment due at or before now,
// across all users: the linked goal's current amount is credited and the
// next investment date advances one period. Returns the number of
// installments processed. A SIP that is overdue by several periods is
// advanced one period per call; the scheduler catches it up on subsequent
// runs.
func (s *sipService) ProcessDue(now time.Time) (int, error) {
	var due []models.SIP
	if err := s.db.Where("status = ? AND next_investment_date <= ?", models.SIPStatusActive, now).Find(&due).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	processed := 0
	for i := range due {
		sip := &due[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if sip.GoalID != nil {
				if err := tx.Model(&models.Goal{}).
					Where("id = ?", *sip.GoalID).
					Update("current_amount", gorm.Expr("current_amount + ?", sip.Amount)).Error; err != nil {
					return err
				}
			}
			sip.NextInvestmentDate = nextInvestmentDate(sip.NextInvestmentDate, sip.Frequency)
			return tx.Save(sip).Error
		})
		if err != nil {
			logger.Get().Errorw("failed to process SIP installment",
				"sip_id", sip.ID,
				"user_id", sip.UserID,
				"error", err,
			)
			continue
		}
		processed++
	}
	return processed, nil
}

func nextInvestmentDate(current time.Time, frequency models.SIPFrequency) time.Time {
	switch frequency {
	case models.SIPFrequencyDaily:
		return current.AddDate(0, 0, 1)
	case models.SIPFrequencyWeekly:
		return current.AddDate(0, 0, 7)
	default:
		return current.AddDate(0, 1, 0)
	}
}
