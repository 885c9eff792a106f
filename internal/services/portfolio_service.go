package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/planner"
)

// portfolioService handles holdings and derived portfolio figures.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// AddHolding adds a new position to the user's portfolio.
func (s *portfolioService) AddHolding(userID uint, symbol, name string, assetClass models.AssetClass, quantity, avgCost, currentPrice float64, purchaseDate *time.Time) (*models.Holding, error) {
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if avgCost < 0 || currentPrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices cannot be negative")
	}

	holding := &models.Holding{
		UserID:       userID,
		Symbol:       symbol,
		Name:         name,
		AssetClass:   assetClass,
		Quantity:     quantity,
		AvgCost:      avgCost,
		CurrentPrice: currentPrice,
		PurchaseDate: purchaseDate,
	}

	if err := s.db.Create(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// GetUserHoldings lists a user's holdings.
func (s *portfolioService) GetUserHoldings(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error) {
	page.Defaults()

	query := s.db.Model(&models.Holding{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var holdings []models.Holding
	if err := query.Scopes(pagination.Paginate(page)).Order("symbol ASC").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(holdings, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetHoldingByID retrieves a single holding owned by the user.
func (s *portfolioService) GetHoldingByID(userID, holdingID uint) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Where("id = ? AND user_id = ?", holdingID, userID).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}

// UpdateHolding updates a holding's quantity, cost basis, or price.
func (s *portfolioService) UpdateHolding(userID, holdingID uint, quantity, avgCost, currentPrice *float64) (*models.Holding, error) {
	holding, err := s.GetHoldingByID(userID, holdingID)
	if err != nil {
		return nil, err
	}

	if quantity != nil {
		if *quantity <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
		}
		holding.Quantity = *quantity
	}
	if avgCost != nil {
		if *avgCost < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Average cost cannot be negative")
		}
		holding.AvgCost = *avgCost
	}
	if currentPrice != nil {
		if *currentPrice < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current price cannot be negative")
		}
		holding.CurrentPrice = *currentPrice
	}

	if err := s.db.Save(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// DeleteHolding soft-deletes a holding.
func (s *portfolioService) DeleteHolding(userID, holdingID uint) error {
	holding, err := s.GetHoldingByID(userID, holdingID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(holding).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSummary aggregates a user's holdings into headline portfolio figures.
func (s *portfolioService) GetSummary(userID uint) (*PortfolioSummary, error) {
	holdings, err := s.allHoldings(userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{HoldingCount: len(holdings)}
	for i := range holdings {
		summary.TotalValue += holdings[i].MarketValue()
		summary.CostBasis += holdings[i].CostBasis()
	}
	summary.UnrealizedGain = summary.TotalValue - summary.CostBasis
	if summary.CostBasis > 0 {
		summary.GainPercent = summary.UnrealizedGain / summary.CostBasis * 100
	}
	return summary, nil
}

// GetAllocation computes the user's current allocation vector by asset class
// and the total portfolio value it was derived from. An empty portfolio
// yields an empty vector and zero value.
func (s *portfolioService) GetAllocation(userID uint) (planner.AllocationVector, float64, error) {
	holdings, err := s.allHoldings(userID)
	if err != nil {
		return nil, 0, err
	}

	byClass := make(map[string]float64)
	total := 0.0
	for i := range holdings {
		value := holdings[i].MarketValue()
		byClass[string(holdings[i].AssetClass)] += value
		total += value
	}

	allocation := make(planner.AllocationVector, len(byClass))
	if total > 0 {
		for class, value := range byClass {
			allocation[class] = value / total * 100
		}
	}
	return allocation, total, nil
}

func (s *portfolioService) allHoldings(userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}
