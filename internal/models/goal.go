package models

import "time"

// GoalCategory represents the type of savings goal.
type GoalCategory string

const (
	GoalCategoryRetirement    GoalCategory = "retirement"
	GoalCategoryEmergencyFund GoalCategory = "emergency_fund"
	GoalCategoryHomePurchase  GoalCategory = "home_purchase"
	GoalCategoryEducation     GoalCategory = "education"
	GoalCategoryTravel        GoalCategory = "travel"
	GoalCategoryInvestment    GoalCategory = "investment"
)

// Goal represents a savings goal with a target amount and date.
// Amounts are USD float64; CurrentAmount may exceed TargetAmount once
// the goal is achieved.
type Goal struct {
	Base
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	Category      GoalCategory `gorm:"not null" json:"category"`
	TargetAmount  float64      `gorm:"not null" json:"target_amount"`
	CurrentAmount float64      `gorm:"not null;default:0" json:"current_amount"`
	TargetDate    time.Time    `gorm:"not null" json:"target_date"`

	// Relationships
	SIPs []SIP `gorm:"foreignKey:GoalID" json:"sips,omitempty"`
}
