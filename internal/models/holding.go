package models

import "time"

// AssetClass represents the broad asset class a holding belongs to.
// Allocation and drift analysis operate at this granularity.
type AssetClass string

const (
	AssetClassStocks       AssetClass = "stocks"
	AssetClassBonds        AssetClass = "bonds"
	AssetClassCash         AssetClass = "cash"
	AssetClassAlternatives AssetClass = "alternatives"
)

// Holding represents a position in a user's portfolio.
type Holding struct {
	Base
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Symbol       string     `gorm:"not null" json:"symbol"`
	Name         string     `gorm:"not null" json:"name"`
	AssetClass   AssetClass `gorm:"not null" json:"asset_class"`
	Quantity     float64    `gorm:"not null" json:"quantity"`
	AvgCost      float64    `gorm:"not null" json:"avg_cost"`
	CurrentPrice float64    `gorm:"not null" json:"current_price"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
}

// MarketValue returns the current market value of the position.
func (h *Holding) MarketValue() float64 {
	return h.Quantity * h.CurrentPrice
}

// CostBasis returns the total acquisition cost of the position.
func (h *Holding) CostBasis() float64 {
	return h.Quantity * h.AvgCost
}

// UnrealizedGain returns the unrealized gain (negative for a loss).
func (h *Holding) UnrealizedGain() float64 {
	return h.MarketValue() - h.CostBasis()
}
