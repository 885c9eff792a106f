package services

import (
	"math"
	"sort"

	"gorm.io/gorm"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
)

// Tax review policy constants. This is a screening aid, not tax advice:
// savings estimates use a flat assumed rate.
const (
	assumedTaxRate           = 0.25
	highPotentialLossFloor   = 2000.0
	mediumPotentialLossFloor = 500.0
)

// taxService screens holdings for tax-loss harvesting candidates.
type taxService struct {
	db *gorm.DB
}

// NewTaxService creates a new TaxServicer.
func NewTaxService(db *gorm.DB) TaxServicer {
	return &taxService{db: db}
}

// GetHarvestingOpportunities lists the user's loss positions, largest loss
// first.
func (s *taxService) GetHarvestingOpportunities(userID uint) ([]HarvestingOpportunity, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	opportunities := []HarvestingOpportunity{}
	for i := range holdings {
		h := &holdings[i]
		gain := h.UnrealizedGain()
		if gain >= 0 {
			continue
		}
		loss := math.Abs(gain)
		opportunities = append(opportunities, HarvestingOpportunity{
			HoldingID:           h.ID,
			Symbol:              h.Symbol,
			Name:                h.Name,
			Quantity:            h.Quantity,
			CostBasis:           h.CostBasis(),
			MarketValue:         h.MarketValue(),
			UnrealizedLoss:      gain,
			EstimatedTaxSavings: loss * assumedTaxRate,
			Potential:           harvestingPotential(loss),
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		if opportunities[i].UnrealizedLoss != opportunities[j].UnrealizedLoss {
			return opportunities[i].UnrealizedLoss < opportunities[j].UnrealizedLoss
		}
		return opportunities[i].Symbol < opportunities[j].Symbol
	})
	return opportunities, nil
}

// GetTaxAnalysis summarizes harvesting opportunities across the portfolio.
func (s *taxService) GetTaxAnalysis(userID uint) (*TaxAnalysis, error) {
	opportunities, err := s.GetHarvestingOpportunities(userID)
	if err != nil {
		return nil, err
	}

	analysis := &TaxAnalysis{Opportunities: opportunities}
	for _, opp := range opportunities {
		analysis.TotalHarvestableLosses += opp.UnrealizedLoss
		analysis.EstimatedTaxSavings += opp.EstimatedTaxSavings
	}
	return analysis, nil
}

func harvestingPotential(loss float64) string {
	switch {
	case loss >= highPotentialLossFloor:
		return "High"
	case loss >= mediumPotentialLossFloor:
		return "Medium"
	default:
		return "Low"
	}
}
