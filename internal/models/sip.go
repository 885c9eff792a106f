package models

import "time"

// SIPFrequency represents how often a systematic investment plan invests.
type SIPFrequency string

const (
	SIPFrequencyDaily   SIPFrequency = "daily"
	SIPFrequencyWeekly  SIPFrequency = "weekly"
	SIPFrequencyMonthly SIPFrequency = "monthly"
)

// SIPStatus represents the lifecycle state of a SIP.
type SIPStatus string

const (
	SIPStatusActive SIPStatus = "active"
	SIPStatusPaused SIPStatus = "paused"
)

// SIP represents a systematic investment plan: a recurring contribution,
// optionally linked to a goal whose progress it feeds.
type SIP struct {
	Base
	UserID             uint         `gorm:"not null;index" json:"user_id"`
	GoalID             *uint        `gorm:"index" json:"goal_id,omitempty"`
	Name               string       `gorm:"not null" json:"name"`
	Amount             float64      `gorm:"not null" json:"amount"`
	Frequency          SIPFrequency `gorm:"not null" json:"frequency"`
	Status             SIPStatus    `gorm:"not null;default:'active'" json:"status"`
	StartDate          time.Time    `gorm:"not null" json:"start_date"`
	NextInvestmentDate time.Time    `gorm:"not null;index" json:"next_investment_date"`

	// Relationships
	Goal *Goal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}

// TableName overrides gorm's derived name, which pluralizes the all-caps
// struct name to "s_ips".
func (SIP) TableName() string {
	return "sips"
}
