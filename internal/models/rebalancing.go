package models

import "time"

// RebalancingType distinguishes scheduled rebalances from user-initiated ones.
type RebalancingType string

const (
	RebalancingTypeAutomatic RebalancingType = "automatic"
	RebalancingTypeManual    RebalancingType = "manual"
)

// RebalancingStatus represents the lifecycle state of a rebalancing execution.
type RebalancingStatus string

const (
	RebalancingStatusInProgress RebalancingStatus = "in_progress"
	RebalancingStatusCompleted  RebalancingStatus = "completed"
)

// RebalancingRecord is the history entry created when a rebalancing plan is
// executed. Execution is simulated: no orders are placed, the record is the
// only durable effect. Changes holds the JSON-encoded transaction list.
type RebalancingRecord struct {
	Base
	UserID          uint              `gorm:"not null;index" json:"user_id"`
	ExecutionID     string            `gorm:"not null;uniqueIndex" json:"execution_id"`
	Type            RebalancingType   `gorm:"not null" json:"type"`
	Reason          string            `json:"reason"`
	Status          RebalancingStatus `gorm:"not null" json:"status"`
	TransactionCost float64           `gorm:"not null" json:"transaction_cost"`
	ExecutedAt      time.Time         `gorm:"not null" json:"executed_at"`
	Changes         string            `json:"changes,omitempty"`
}

// RebalanceFrequency represents how often automatic rebalancing runs.
type RebalanceFrequency string

const (
	RebalanceFrequencyMonthly   RebalanceFrequency = "monthly"
	RebalanceFrequencyQuarterly RebalanceFrequency = "quarterly"
	RebalanceFrequencyYearly    RebalanceFrequency = "yearly"
)

// RebalancingSettings holds per-user rebalancing preferences. A default row
// is created on first read.
type RebalancingSettings struct {
	Base
	UserID               uint               `gorm:"not null;uniqueIndex" json:"user_id"`
	DriftThreshold       float64            `gorm:"not null" json:"drift_threshold"`
	AutoRebalancing      bool               `gorm:"not null;default:false" json:"auto_rebalancing"`
	Frequency            RebalanceFrequency `gorm:"not null" json:"rebalancing_frequency"`
	NotificationsEnabled bool               `gorm:"not null;default:true" json:"notifications_enabled"`
	MinTransactionAmount float64            `gorm:"not null" json:"min_transaction_amount"`
}
